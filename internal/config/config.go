// Package config handles engine configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds all engine settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// RendererConfig holds GPU and frame-pacing settings.
type RendererConfig struct {
	// FramesInFlight is the number of frame slots (2 for double buffering,
	// 3 for triple buffering).
	FramesInFlight int `yaml:"frames_in_flight"`
	// MaxTextures fixes the layer count of the scene texture array.
	MaxTextures int `yaml:"max_textures"`
	// PresentMode is "fifo" (vsync), "mailbox" or "immediate".
	PresentMode string `yaml:"present_mode"`
	// MSAASamples is 1 (off) or 4.
	MSAASamples int `yaml:"msaa_samples"`
	// ForceFallbackAdapter requests a software adapter, for CI machines.
	ForceFallbackAdapter bool `yaml:"force_fallback_adapter"`
}

// WorkersConfig holds worker pool settings for per-frame scene preparation.
type WorkersConfig struct {
	// Count is the number of workers; 0 selects runtime.NumCPU().
	Count int `yaml:"count"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "prism",
		},
		Renderer: RendererConfig{
			FramesInFlight: 2,
			MaxTextures:    64,
			PresentMode:    "fifo",
			MSAASamples:    1,
		},
		Workers: WorkersConfig{
			Count: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration with priority defaults < file. A missing file is
// not an error; an invalid one is.
//
// Parameters:
//   - path: explicit config path, or "" to search standard locations
//
// Returns:
//   - *Config: the merged, validated configuration
//   - error: parse or validation failure
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for values the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Renderer.FramesInFlight < 2 || c.Renderer.FramesInFlight > 3 {
		return fmt.Errorf("renderer.frames_in_flight must be 2 or 3, got %d", c.Renderer.FramesInFlight)
	}
	if c.Renderer.MaxTextures < 1 {
		return fmt.Errorf("renderer.max_textures must be at least 1, got %d", c.Renderer.MaxTextures)
	}
	switch c.Renderer.MSAASamples {
	case 1, 4:
	default:
		return fmt.Errorf("renderer.msaa_samples must be 1 or 4, got %d", c.Renderer.MSAASamples)
	}
	switch c.Renderer.PresentMode {
	case "fifo", "mailbox", "immediate":
	default:
		return fmt.Errorf("renderer.present_mode must be fifo, mailbox or immediate, got %q", c.Renderer.PresentMode)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Workers.Count < 0 {
		return fmt.Errorf("workers.count must not be negative, got %d", c.Workers.Count)
	}
	return nil
}

// Save writes the config to a specific path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./prism.yaml",
		filepath.Join(configDir(), "prism.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// configDir returns the OS-appropriate config directory.
func configDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "prism")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "prism")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "prism")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "prism")
	}
}
