package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing path should fail")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.yaml")
	body := "renderer:\n  frames_in_flight: 3\n  max_textures: 16\nlogging:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Renderer.FramesInFlight != 3 {
		t.Errorf("frames_in_flight = %d, want 3", cfg.Renderer.FramesInFlight)
	}
	if cfg.Renderer.MaxTextures != 16 {
		t.Errorf("max_textures = %d, want 16", cfg.Renderer.MaxTextures)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched fields keep defaults.
	if cfg.Window.Width != 1280 {
		t.Errorf("window width = %d, want default 1280", cfg.Window.Width)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"frames_in_flight too low", func(c *Config) { c.Renderer.FramesInFlight = 1 }},
		{"frames_in_flight too high", func(c *Config) { c.Renderer.FramesInFlight = 4 }},
		{"zero max_textures", func(c *Config) { c.Renderer.MaxTextures = 0 }},
		{"bad msaa", func(c *Config) { c.Renderer.MSAASamples = 2 }},
		{"bad present mode", func(c *Config) { c.Renderer.PresentMode = "relaxed" }},
		{"zero window size", func(c *Config) { c.Window.Width = 0 }},
		{"negative workers", func(c *Config) { c.Workers.Count = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "prism.yaml")
	cfg := Default()
	cfg.Renderer.PresentMode = "mailbox"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Renderer.PresentMode != "mailbox" {
		t.Errorf("present mode = %q, want mailbox", loaded.Renderer.PresentMode)
	}
}
