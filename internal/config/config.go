// Package config provides configuration management for canvasd.
//
// Config file locations (priority order):
//  1. $CANVASD_CONFIG
//  2. ./canvasd.yaml, then ./canvasd.toml
//  3. $XDG_CONFIG_HOME/canvasd/config.yaml
//  4. ~/.config/canvasd/config.yaml
//  5. /etc/canvasd/config.yaml
//
// Files ending in .toml are decoded as TOML, everything else as YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path in the format its extension names
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.Canvas.Width == 0 {
		c.Canvas.Width = 800
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 600
	}
	if c.Canvas.Background == "" {
		c.Canvas.Background = "#1c2e60"
	}

	if len(c.Grid.Vertical) == 0 {
		c.Grid.Vertical = []float64{50, 10, 10, 10}
	}
	if len(c.Grid.Horizontal) == 0 {
		c.Grid.Horizontal = []float64{50, 10, 10, 10}
	}

	if c.Journal.DSN == "" {
		c.Journal.DSN = ":memory:"
	}
	if c.Journal.DefaultLimit == 0 {
		c.Journal.DefaultLimit = 100
	}

	if c.Events.Keepalive == 0 {
		c.Events.Keepalive = Duration(30 * time.Second)
	}
}

// Validate rejects values the server cannot run with
func (c *Config) Validate() error {
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas size must not be negative: %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.MaxCanvases < 0 {
		return fmt.Errorf("max_canvases must not be negative: %d", c.Canvas.MaxCanvases)
	}
	for _, v := range append(append([]float64(nil), c.Grid.Vertical...), c.Grid.Horizontal...) {
		if v <= 0 {
			return fmt.Errorf("grid spacing must be positive, got %v", v)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Log: %s/%s\n", c.Server.Addr, c.Log.Level, c.Log.Format)
	summary += fmt.Sprintf("Canvas: %dx%d %s, Grid: %v / %v\n",
		c.Canvas.Width, c.Canvas.Height, c.Canvas.Background, c.Grid.Vertical, c.Grid.Horizontal)
	summary += fmt.Sprintf("Journal: %s (limit %d)", c.Journal.DSN, c.Journal.DefaultLimit)
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
