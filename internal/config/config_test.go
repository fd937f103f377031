package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ContentDir != "content" {
		t.Errorf("expected default content_dir %q, got %q", "content", cfg.ContentDir)
	}
	if cfg.Layout.MaxIterations != 300 {
		t.Errorf("expected default layout.max_iterations 300, got %d", cfg.Layout.MaxIterations)
	}
	if cfg.Layout.MinSpacing != 120 || cfg.Layout.Padding != 80 {
		t.Errorf("unexpected layout defaults: %+v", cfg.Layout.Options)
	}
	if cfg.Viewport.MinZoom != 0.1 || cfg.Viewport.MaxZoom != 3 {
		t.Errorf("unexpected zoom bounds: %v..%v", cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	}
	if cfg.Server.TickInterval != 16*time.Millisecond {
		t.Errorf("expected default tick interval 16ms, got %v", cfg.Server.TickInterval)
	}
	if cfg.DBPath() != filepath.Join(".compass", "compass.db") {
		t.Errorf("unexpected DBPath %q", cfg.DBPath())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.compass.yml")

	original := DefaultConfig()
	original.ContentDir = "resources"
	original.Include = []string{"tools/**", "methods/**"}
	original.RelatedLimit = 8
	original.Layout.MinSpacing = 90
	original.Layout.Width = 1600
	original.Viewport.MaxZoom = 4
	original.Server.Port = 9090
	original.Server.TickInterval = 33 * time.Millisecond
	original.Log.Env = EnvProduction

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.ContentDir != original.ContentDir {
		t.Errorf("content_dir: got %q, want %q", loaded.ContentDir, original.ContentDir)
	}
	if loaded.RelatedLimit != 8 {
		t.Errorf("related_limit: got %d, want 8", loaded.RelatedLimit)
	}
	if loaded.Layout.MinSpacing != 90 || loaded.Layout.Width != 1600 {
		t.Errorf("layout: got %+v", loaded.Layout)
	}
	if loaded.Layout.Repulsion != 25000 {
		t.Errorf("layout.repulsion: got %v, want default 25000", loaded.Layout.Repulsion)
	}
	if loaded.Viewport.MaxZoom != 4 {
		t.Errorf("viewport.max_zoom: got %v, want 4", loaded.Viewport.MaxZoom)
	}
	if loaded.Server.Port != 9090 || loaded.Server.TickInterval != 33*time.Millisecond {
		t.Errorf("server: got %+v", loaded.Server)
	}
	if loaded.Log.Env != EnvProduction {
		t.Errorf("log.env: got %q", loaded.Log.Env)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadHandWrittenYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".compass.yml")
	data := []byte("content_dir: library\nlayout:\n  repulsion: 18000\n  reheat_iterations: 0\nserver:\n  tick_interval: 50ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ContentDir != "library" || cfg.Layout.Repulsion != 18000 || cfg.Layout.ReheatIterations != 0 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Server.TickInterval != 50*time.Millisecond {
		t.Errorf("tick_interval: got %v, want 50ms", cfg.Server.TickInterval)
	}
	if cfg.Layout.SpringLength != 150 {
		t.Errorf("unset keys should keep defaults, spring_length = %v", cfg.Layout.SpringLength)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.ContentDir != "content" {
		t.Errorf("expected default content_dir, got %q", cfg.ContentDir)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("COMPASS_CONTENT_DIR", "catalog")
	t.Setenv("COMPASS_LAYOUT__MIN_SPACING", "140")
	t.Setenv("COMPASS_SERVER__PORT", "7000")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ContentDir != "catalog" {
		t.Errorf("env override failed: got %q, want %q", loaded.ContentDir, "catalog")
	}
	if loaded.Layout.MinSpacing != 140 {
		t.Errorf("nested env override failed: got %v", loaded.Layout.MinSpacing)
	}
	if loaded.Server.Port != 7000 {
		t.Errorf("server.port override failed: got %d", loaded.Server.Port)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"COMPASS_DATA_DIR":              "data_dir",
		"COMPASS_LAYOUT__ALPHA_MIN":     "layout.alpha_min",
		"COMPASS_VIEWPORT__FIT_PADDING": "viewport.fit_padding",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty content_dir", func(c *Config) { c.ContentDir = "" }},
		{"empty data_dir", func(c *Config) { c.DataDir = "" }},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }},
		{"negative related_limit", func(c *Config) { c.RelatedLimit = -1 }},
		{"zero iterations", func(c *Config) { c.Layout.MaxIterations = 0 }},
		{"damping of one", func(c *Config) { c.Layout.VelocityDamping = 1 }},
		{"zero damping", func(c *Config) { c.Layout.VelocityDamping = 0 }},
		{"negative padding", func(c *Config) { c.Layout.Padding = -1 }},
		{"negative reheat", func(c *Config) { c.Layout.ReheatIterations = -1 }},
		{"zero min_zoom", func(c *Config) { c.Viewport.MinZoom = 0 }},
		{"inverted zoom", func(c *Config) { c.Viewport.MinZoom = 4 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown log env", func(c *Config) { c.Log.Env = "staging" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestLoaderConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrency = 2
	lc := cfg.LoaderConfig()
	if lc.Dir != cfg.ContentDir || lc.Concurrency != 2 || len(lc.Include) != 1 {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestValidators(t *testing.T) {
	if validatePort("8080") != nil || validatePort("0") == nil || validatePort("x") == nil {
		t.Error("validatePort mismatch")
	}
	if validateNonNegative("0") != nil || validateNonNegative("-2") == nil {
		t.Error("validateNonNegative mismatch")
	}
}
