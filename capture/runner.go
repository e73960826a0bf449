// CLAUDE:SUMMARY Orchestrates periodic page snapshots: browser, serializer, mirrors, sinks.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/idgen"
	"github.com/hazyhaar/domsnap/record"
	"github.com/hazyhaar/domsnap/snapshot"
	"github.com/hazyhaar/domsnap/watch"
)

// Runner drives the capture loop for the configured pages. Each page gets
// its own mirror pair so node ids stay stable across periodic snapshots
// of the same page and never collide across pages.
type Runner struct {
	cfg    *FileConfig
	policy *snapshot.Policy
	sinks  []record.Sink
	logger *slog.Logger
	newID  idgen.Generator

	browser *Browser
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewRunner builds a Runner from configuration. The policy file named in
// cfg, if any, is loaded here so a bad path fails before the browser
// starts.
func NewRunner(cfg *FileConfig, logger *slog.Logger, sinks ...record.Sink) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var policy *snapshot.Policy
	if cfg.Snapshot.PolicyFile != "" {
		p, err := snapshot.LoadPolicyFile(cfg.Snapshot.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("capture: load policy: %w", err)
		}
		policy = p
	}
	return &Runner{
		cfg:    cfg,
		policy: policy,
		sinks:  sinks,
		logger: logger,
		newID:  idgen.Default,
	}, nil
}

// Start connects the browser and launches one capture loop per page.
// It returns once all loops are running; Wait blocks until they exit.
func (r *Runner) Start(ctx context.Context) error {
	b, err := Connect(ctx, BrowserConfig{
		Remote:  r.cfg.Browser.Remote,
		Stealth: r.cfg.Browser.Stealth,
		Logger:  r.logger,
	})
	if err != nil {
		return err
	}
	r.browser = b

	if r.cfg.Snapshot.PolicyFile != "" {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.watchPolicy(ctx)
		}()
	}

	for _, page := range r.cfg.Pages {
		pc := page
		if pc.ID == "" {
			pc.ID = r.newID()
		}
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.watchPage(ctx, pc)
		}()
	}
	return nil
}

// Wait blocks until every capture loop has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Stop closes the browser. Loops observe the closed browser through their
// context; call after cancelling the Start context.
func (r *Runner) Stop() {
	if r.browser != nil {
		r.browser.Close()
	}
}

// watchPolicy hot-reloads the redaction policy when its file changes.
// A reload takes effect from the next snapshot pass; in-flight passes
// keep the policy they started with.
func (r *Runner) watchPolicy(ctx context.Context) {
	path := r.cfg.Snapshot.PolicyFile
	w := watch.New(watch.Options{
		Detector: watch.FileModTime(path),
		Debounce: 500 * time.Millisecond,
		Logger:   r.logger,
	})
	w.OnChange(ctx, func() error {
		p, err := snapshot.LoadPolicyFile(path)
		if err != nil {
			return err
		}
		r.mu.Lock()
		r.policy = p
		r.mu.Unlock()
		r.logger.Info("capture: policy reloaded", "path", path)
		return nil
	})
}

func (r *Runner) watchPage(ctx context.Context, pc PageConfig) {
	mirror := snapshot.NewMirror()
	styles := snapshot.NewStyleMirror()

	snapOnce := func() {
		snap, err := r.SnapshotPage(ctx, pc, mirror, styles)
		if err != nil {
			r.logger.Error("capture: snapshot failed", "url", pc.URL, "error", err)
			return
		}
		r.emit(ctx, snap)
	}

	snapOnce()
	if pc.Once {
		return
	}

	ticker := time.NewTicker(pc.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snapOnce()
		}
	}
}

// SnapshotPage opens the page, captures the live tree, and serializes it
// into a snapshot record. The supplied mirrors carry id state between
// successive snapshots of the same page.
func (r *Runner) SnapshotPage(ctx context.Context, pc PageConfig, mirror *snapshot.Mirror, styles *snapshot.StyleMirror) (*record.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, err := r.browser.OpenPage(ctx, pc.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	tree, err := Capture(ctx, page, Config{Logger: r.logger})
	if err != nil {
		return nil, err
	}

	root := snapshot.SerializeNodeWithID(tree, &snapshot.Options{
		Mirror:           mirror,
		Styles:           styles,
		Policy:           r.policy,
		InlineStylesheet: r.cfg.Snapshot.InlineStylesheet,
		SerializeShadow:  r.cfg.Snapshot.SerializeShadow,
		SlimDOM:          r.cfg.Snapshot.SlimDOM,
		BaseURL:          pc.URL,
	})
	if root == nil {
		return nil, fmt.Errorf("capture: %s: serialization produced no root", pc.URL)
	}

	snap := &record.Snapshot{
		ID:        r.newID(),
		PageURL:   pc.URL,
		PageID:    pc.ID,
		Root:      root,
		Hash:      record.HashRoot(root),
		Timestamp: time.Now().UnixMilli(),
	}
	styles.Each(func(id int, sheet *cssom.StyleSheet) {
		snap.Stylesheets = append(snap.Stylesheets, record.StylesheetEntry{
			ID:   id,
			Href: sheet.Href,
			CSS:  snapshot.SheetText(sheet, pc.URL),
		})
	})

	r.logger.Info("capture: snapshot taken",
		"url", pc.URL, "page_id", pc.ID, "snapshot_id", snap.ID,
		"stylesheets", len(snap.Stylesheets))
	return snap, nil
}

func (r *Runner) emit(ctx context.Context, snap *record.Snapshot) {
	for _, s := range r.sinks {
		if err := s.Send(ctx, snap); err != nil {
			r.logger.Error("capture: sink send", "snapshot_id", snap.ID, "error", err)
		}
	}
}
