package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version" toml:"version"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Canvas  CanvasConfig  `yaml:"canvas" toml:"canvas"`
	Grid    GridConfig    `yaml:"grid" toml:"grid"`
	Journal JournalConfig `yaml:"journal" toml:"journal"`
	Events  EventsConfig  `yaml:"events" toml:"events"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Addr           string   `yaml:"addr" toml:"addr"`
	ReadTimeout    Duration `yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout    Duration `yaml:"idle_timeout" toml:"idle_timeout"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty" toml:"allowed_origins"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json or console
}

// CanvasConfig holds the defaults applied to new canvases
type CanvasConfig struct {
	Width       int    `yaml:"width" toml:"width"`
	Height      int    `yaml:"height" toml:"height"`
	Background  string `yaml:"background" toml:"background"`
	MaxCanvases int    `yaml:"max_canvases" toml:"max_canvases"` // 0 = unlimited
}

// GridConfig holds the background grid spacing sequences
type GridConfig struct {
	Vertical   []float64 `yaml:"vertical" toml:"vertical"`
	Horizontal []float64 `yaml:"horizontal" toml:"horizontal"`
}

// JournalConfig configures the committed-move journal
type JournalConfig struct {
	DSN          string `yaml:"dsn" toml:"dsn"`
	DefaultLimit int    `yaml:"default_limit" toml:"default_limit"`
}

// EventsConfig configures live event delivery
type EventsConfig struct {
	Keepalive Duration `yaml:"keepalive" toml:"keepalive"`
	// PublishMoves also streams every drag update, not only commits
	PublishMoves bool `yaml:"publish_moves" toml:"publish_moves"`
}

// Duration wraps time.Duration for human-readable config values ("30s")
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
