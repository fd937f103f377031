package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COMPASS_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (COMPASS_*). A double underscore separates
// nesting levels: COMPASS_LAYOUT__MIN_SPACING sets layout.min_spacing.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps COMPASS_SERVER__PORT to server.port.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// DBPath returns the SQLite catalog path under DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "compass.db")
}

// validEnvironments is the set of recognized log.env values.
var validEnvironments = map[Environment]bool{
	EnvDevelopment: true,
	EnvProduction:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be non-negative")
	}
	if c.RelatedLimit < 0 {
		return fmt.Errorf("related_limit must be non-negative")
	}

	l := c.Layout
	if l.MaxIterations <= 0 {
		return fmt.Errorf("layout.max_iterations must be positive")
	}
	if l.VelocityDamping <= 0 || l.VelocityDamping >= 1 {
		return fmt.Errorf("layout.velocity_damping must be between 0 and 1, got %v", l.VelocityDamping)
	}
	if l.Padding < 0 {
		return fmt.Errorf("layout.padding must be non-negative")
	}
	if l.AlphaMin < 0 || l.AlphaDecay < 0 {
		return fmt.Errorf("layout.alpha_min and layout.alpha_decay must be non-negative")
	}
	if l.ReheatIterations < 0 {
		return fmt.Errorf("layout.reheat_iterations must be non-negative")
	}
	if l.Width < 0 || l.Height < 0 {
		return fmt.Errorf("layout.width and layout.height must be non-negative")
	}

	v := c.Viewport
	if v.MinZoom <= 0 {
		return fmt.Errorf("viewport.min_zoom must be positive")
	}
	if v.MinZoom > v.MaxZoom {
		return fmt.Errorf("viewport.min_zoom %v exceeds max_zoom %v", v.MinZoom, v.MaxZoom)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxViews < 0 {
		return fmt.Errorf("server.max_views must be non-negative")
	}

	if c.Log.Env != "" && !validEnvironments[c.Log.Env] {
		return fmt.Errorf("invalid log.env %q: must be one of development, production", c.Log.Env)
	}

	return nil
}
