package config

import (
	"time"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/viewport"
)

// Environment selects the logging profile.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config is the top-level compass configuration, corresponding to .compass.yml.
type Config struct {
	ContentDir     string         `yaml:"content_dir" koanf:"content_dir"`
	Include        []string       `yaml:"include" koanf:"include"`
	Exclude        []string       `yaml:"exclude" koanf:"exclude"`
	DataDir        string         `yaml:"data_dir" koanf:"data_dir"`
	MaxConcurrency int            `yaml:"max_concurrency" koanf:"max_concurrency"`
	RelatedLimit   int            `yaml:"related_limit" koanf:"related_limit"`
	Layout         LayoutConfig   `yaml:"layout" koanf:"layout"`
	Viewport       ViewportConfig `yaml:"viewport" koanf:"viewport"`
	Server         ServerConfig   `yaml:"server" koanf:"server"`
	Log            LogConfig      `yaml:"log" koanf:"log"`
}

// LayoutConfig holds the force simulation tunables plus the canvas used for
// headless runs.
type LayoutConfig struct {
	layout.Options `yaml:",inline" koanf:",squash"`

	Width  float64 `yaml:"width" koanf:"width"`
	Height float64 `yaml:"height" koanf:"height"`
}

// ViewportConfig holds the zoom bounds and step sizes.
type ViewportConfig struct {
	viewport.Options `yaml:",inline" koanf:",squash"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	TickInterval    time.Duration `yaml:"tick_interval" koanf:"tick_interval"`
	MaxViews        int           `yaml:"max_views" koanf:"max_views"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Env   Environment `yaml:"env" koanf:"env"`
	Level string      `yaml:"level" koanf:"level"`
}
