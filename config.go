package bramble

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Size is a width and height in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the engine's startup configuration.
type Config struct {
	WindowSize  Size   `yaml:"window_size"`
	WindowTitle string `yaml:"window_title"`

	// DefaultFontPath is loaded by Engine.DefaultFont. Empty means the
	// built-in Go Regular face.
	DefaultFontPath string `yaml:"default_font_path"`
	// DefaultFontSize sizes captions made by Engine.NewCaption.
	DefaultFontSize float64 `yaml:"default_font_size"`

	// DefaultTexturePath is loaded by Engine.DefaultTexture with
	// DefaultSpriteSize cells.
	DefaultTexturePath string `yaml:"default_texture_path"`
	DefaultSpriteSize  Size   `yaml:"default_sprite_size"`

	// ExitOnException stops the engine at the end of the frame in which a
	// user callback panicked.
	ExitOnException bool `yaml:"exit_on_exception"`
	// Headless skips real input polling and window setup; frames are
	// driven by Engine.Step.
	Headless bool `yaml:"headless"`
	// Debug logs per-frame timing.
	Debug bool `yaml:"debug"`

	TPS           int    `yaml:"tps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		WindowSize:        Size{1024, 768},
		WindowTitle:       "bramble",
		DefaultFontSize:   DefaultFontSize,
		DefaultSpriteSize: Size{DefaultCellSize, DefaultCellSize},
		TPS:               60,
		ScreenshotDir:     "screenshots",
	}
}

// ParseConfig overlays YAML data on DefaultConfig. Keys absent from data
// keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects non-positive sizes and rates.
func (c Config) Validate() error {
	if c.WindowSize.Width <= 0 || c.WindowSize.Height <= 0 {
		return valueErrorf("window_size must be positive, got %dx%d", c.WindowSize.Width, c.WindowSize.Height)
	}
	if c.DefaultSpriteSize.Width <= 0 || c.DefaultSpriteSize.Height <= 0 {
		return valueErrorf("default_sprite_size must be positive, got %dx%d", c.DefaultSpriteSize.Width, c.DefaultSpriteSize.Height)
	}
	if c.DefaultFontSize <= 0 {
		return valueErrorf("default_font_size must be positive, got %g", c.DefaultFontSize)
	}
	if c.TPS <= 0 {
		return valueErrorf("tps must be positive, got %d", c.TPS)
	}
	return nil
}
