// CLAUDE:SUMMARY Defines capture config structs and parses YAML configuration files with defaults.
package capture

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/domsnap/snapshot"
)

// FileConfig is the top-level capture configuration.
type FileConfig struct {
	Browser  BrowserSettings `yaml:"browser"`
	Pages    []PageConfig    `yaml:"pages"`
	Snapshot SnapshotConfig  `yaml:"snapshot"`
	Store    StoreConfig     `yaml:"store"`
	Sinks    []SinkConfig    `yaml:"sinks"`
}

// BrowserSettings controls Chrome lifecycle.
type BrowserSettings struct {
	Remote  string `yaml:"remote"`
	Stealth bool   `yaml:"stealth"`
}

// PageConfig defines a page to snapshot.
type PageConfig struct {
	ID       string        `yaml:"id"`
	URL      string        `yaml:"url"`
	Interval time.Duration `yaml:"interval"`
	Once     bool          `yaml:"once"`
}

// SnapshotConfig controls serialization and redaction.
type SnapshotConfig struct {
	PolicyFile       string           `yaml:"policy_file"`
	InlineStylesheet bool             `yaml:"inline_stylesheet"`
	SerializeShadow  bool             `yaml:"serialize_shadow"`
	SlimDOM          snapshot.SlimDOM `yaml:"slim_dom"`
}

// StoreConfig points at the SQLite snapshot database. Empty path disables
// persistence (sinks only).
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SinkConfig defines an output backend.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: read config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("capture: parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *FileConfig) applyDefaults() {
	for i := range c.Pages {
		if c.Pages[i].Interval <= 0 {
			c.Pages[i].Interval = time.Hour
		}
	}
}
