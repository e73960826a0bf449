// Package capture builds dom trees from a live page over CDP. It is the
// only component that talks to a browser: everything downstream
// (serializer, mirrors, store) is pure over the captured tree.
package capture

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserConfig controls how the capture browser is obtained.
type BrowserConfig struct {
	// Remote is a DevTools websocket URL. Empty launches a local
	// headless Chrome.
	Remote string

	// Stealth creates pages through the stealth bundle, for sites that
	// fingerprint headless browsers.
	Stealth bool

	Logger *slog.Logger
}

// Browser wraps a rod browser with the capture configuration.
type Browser struct {
	rod     *rod.Browser
	stealth bool
	logger  *slog.Logger
}

// Connect launches or attaches to a browser per cfg.
func Connect(ctx context.Context, cfg BrowserConfig) (*Browser, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	wsURL := cfg.Remote
	if wsURL == "" {
		u, err := launcher.New().Headless(true).Launch()
		if err != nil {
			return nil, fmt.Errorf("capture: launch browser: %w", err)
		}
		wsURL = u
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("capture: connect browser: %w", err)
	}

	logger.Info("capture: browser connected", "remote", cfg.Remote != "", "stealth", cfg.Stealth)
	return &Browser{rod: b, stealth: cfg.Stealth, logger: logger}, nil
}

// OpenPage navigates a new page to url and waits for load.
func (b *Browser) OpenPage(ctx context.Context, url string) (*rod.Page, error) {
	var page *rod.Page
	var err error
	if b.stealth {
		page, err = stealth.Page(b.rod)
	} else {
		page, err = b.rod.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("capture: open page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("capture: navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("capture: wait load %s: %w", url, err)
	}

	b.logger.Debug("capture: page loaded", "url", url)
	return page, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	if err := b.rod.Close(); err != nil {
		b.logger.Warn("capture: browser close", "error", err)
	}
}
