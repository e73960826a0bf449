package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	yaml := `
browser:
  remote: ws://localhost:9222
  stealth: true
pages:
  - id: news
    url: https://example.com/news
    interval: 5m
  - url: https://example.com/once
    once: true
snapshot:
  inline_stylesheet: true
  serialize_shadow: true
  slim_dom:
    script: true
    comment: true
store:
  path: /tmp/domsnap.db
sinks:
  - type: stdout
`
	path := filepath.Join(t.TempDir(), "domsnap.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	if cfg.Browser.Remote != "ws://localhost:9222" || !cfg.Browser.Stealth {
		t.Errorf("browser: got %+v", cfg.Browser)
	}
	if len(cfg.Pages) != 2 {
		t.Fatalf("pages: got %d, want 2", len(cfg.Pages))
	}
	if cfg.Pages[0].Interval != 5*time.Minute {
		t.Errorf("interval: got %v, want 5m", cfg.Pages[0].Interval)
	}
	// Missing interval falls back to the default.
	if cfg.Pages[1].Interval != time.Hour {
		t.Errorf("default interval: got %v, want 1h", cfg.Pages[1].Interval)
	}
	if !cfg.Pages[1].Once {
		t.Error("once flag lost")
	}
	if !cfg.Snapshot.InlineStylesheet || !cfg.Snapshot.SerializeShadow {
		t.Errorf("snapshot config: got %+v", cfg.Snapshot)
	}
	if !cfg.Snapshot.SlimDOM.Script || !cfg.Snapshot.SlimDOM.Comment {
		t.Errorf("slim dom: got %+v", cfg.Snapshot.SlimDOM)
	}
	if cfg.Store.Path != "/tmp/domsnap.db" {
		t.Errorf("store path: got %q", cfg.Store.Path)
	}
	if len(cfg.Sinks) != 1 || cfg.Sinks[0].Type != "stdout" {
		t.Errorf("sinks: got %+v", cfg.Sinks)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file: want error")
	}
}
