package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/archonhq/archon/pkg/layout"
)

// Cache backend names accepted in configuration.
const (
	CacheBackendFile = "file"
	CacheBackendNone = "none"
)

// Config is the archon.toml configuration file, read from the XDG config
// directory. Every field has a working default; the file is optional.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig sets default layout options, overridable per run by flags.
type LayoutConfig struct {
	Direction string  `toml:"direction"`
	Spacing   float64 `toml:"spacing"`
	Routing   string  `toml:"routing"`
	Preset    string  `toml:"preset"`
}

// CacheConfig selects the persistent layout cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"` // file (default) or none
	Dir     string `toml:"dir"`     // overrides the XDG cache directory
}

// ServerConfig configures `archon serve`.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"` // empty means in-memory storage
	MongoDB  string `toml:"mongo_db"`

	// RedisAddr switches the layout cache to Redis so several server
	// instances share solver outputs. Empty keeps the local cache.
	RedisAddr string `toml:"redis_addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			Direction: string(layout.DirectionRight),
			Spacing:   layout.DefaultSpacing,
			Routing:   string(layout.RoutingPolyline),
			Preset:    string(layout.PresetFlow),
		},
		Cache:  CacheConfig{Backend: CacheBackendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads archon.toml from the config directory, falling back to
// defaults when the file is absent or unreadable. A present-but-broken
// file is treated as absent; flags and defaults still work.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	dir, err := configDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(dir, "archon.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LayoutOptions converts the configured layout defaults into options.
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	if c.Layout.Direction != "" {
		opts.Direction = layout.Direction(c.Layout.Direction)
	}
	if c.Layout.Spacing > 0 {
		opts.Spacing = c.Layout.Spacing
	}
	if c.Layout.Routing != "" {
		opts.EdgeRouting = layout.Routing(c.Layout.Routing)
	}
	if c.Layout.Preset != "" {
		opts.Preset = layout.Preset(c.Layout.Preset)
	}
	return opts
}
