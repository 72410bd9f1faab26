package bramble

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
	if cfg.WindowSize != (Size{1024, 768}) {
		t.Errorf("WindowSize = %v", cfg.WindowSize)
	}
	if cfg.ExitOnException || cfg.Headless || cfg.Debug {
		t.Error("flags should default off")
	}
}

func TestParseConfigOverlay(t *testing.T) {
	data := []byte(`
window_size: {width: 640, height: 480}
window_title: Crypt
exit_on_exception: true
default_sprite_size: {width: 12, height: 12}
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WindowSize != (Size{640, 480}) || cfg.WindowTitle != "Crypt" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.ExitOnException {
		t.Error("exit_on_exception not applied")
	}
	if cfg.DefaultSpriteSize != (Size{12, 12}) {
		t.Errorf("DefaultSpriteSize = %v", cfg.DefaultSpriteSize)
	}
	if cfg.TPS != 60 || cfg.ScreenshotDir != "screenshots" {
		t.Error("absent keys should keep their defaults")
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := map[string]struct {
		data    string
		wantErr error
	}{
		"zero width":  {"window_size: {width: 0, height: 10}", ErrValue},
		"zero sprite": {"default_sprite_size: {width: 8, height: 0}", ErrValue},
		"bad tps":     {"tps: -1", ErrValue},
		"font size":   {"default_font_size: 0", ErrValue},
		"not yaml":    {"window_size: [", nil},
	}
	for name, tt := range tests {
		_, err := ParseConfig([]byte(tt.data))
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: err = %v, want %v", name, err, tt.wantErr)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.yaml")
	if err := os.WriteFile(path, []byte("debug: true\nheadless: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || !cfg.Headless {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("tps: 0\n"), 0o644)
	if _, err := LoadConfig(bad); !errors.Is(err, ErrValue) {
		t.Errorf("invalid file err = %v, want ErrValue", err)
	}
}
