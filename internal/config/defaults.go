package config

import (
	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/resource"
	"github.com/ziadkadry99/compass/internal/viewport"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".compass.yml"

// DefaultExcludes are glob patterns excluded from import by default.
var DefaultExcludes = []string{
	"**/README.md",
	"**/_*.md",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ContentDir:     "content",
		Include:        []string{"**/*.md"},
		Exclude:        append([]string{}, DefaultExcludes...),
		DataDir:        ".compass",
		MaxConcurrency: 4,
		RelatedLimit:   5,
		Layout: LayoutConfig{
			Options: layout.DefaultOptions(),
			Width:   1200,
			Height:  800,
		},
		Viewport: ViewportConfig{
			Options: viewport.DefaultOptions(),
		},
		Server: ServerConfig{
			Port:         8080,
			TickInterval: layout.DefaultTickInterval,
			MaxViews:     16,
		},
		Log: LogConfig{
			Env:   EnvDevelopment,
			Level: "",
		},
	}
}

// LoaderConfig returns the resource loader settings for this configuration.
func (c *Config) LoaderConfig() resource.LoaderConfig {
	return resource.LoaderConfig{
		Dir:         c.ContentDir,
		Include:     c.Include,
		Exclude:     c.Exclude,
		Concurrency: c.MaxConcurrency,
	}
}
