// CLAUDE:SUMMARY Runs the injected walker on a live page and returns the captured dom tree.
package capture

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/domsnap/dom"
)

//go:embed capture.js
var captureJS string

// Config for one capture pass.
type Config struct {
	Logger *slog.Logger
}

// Capture runs the injected walker on page and returns the live dom tree:
// full document including open shadow roots, with scroll offsets, form
// values, layout boxes, and CSSOM rule text attached.
//
// Closed shadow roots are invisible to the walker and are skipped, the
// same way the mutation observer skips them.
func Capture(ctx context.Context, page *rod.Page, cfg Config) (*dom.Node, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res, err := page.Context(ctx).Eval(captureJS)
	if err != nil {
		return nil, fmt.Errorf("capture: eval walker: %w", err)
	}

	tree, err := decodeTree([]byte(res.Value.Str()))
	if err != nil {
		return nil, err
	}

	logger.Debug("capture: tree captured", "nodes", countNodes(tree))
	return tree, nil
}

func countNodes(n *dom.Node) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	if n.ShadowRoot != nil {
		total += countNodes(n.ShadowRoot)
	}
	return total
}
