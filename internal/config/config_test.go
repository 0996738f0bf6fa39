package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/youruser/ticketapp/internal/errors"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.Overlays.StampX != 90 || cfg.Overlays.StampY != 460 {
		t.Errorf("stamp position = (%d,%d), want (90,460)", cfg.Overlays.StampX, cfg.Overlays.StampY)
	}
	if len(cfg.Fonts.Bundled) != 6 {
		t.Errorf("len(Bundled) = %d, want 6", len(cfg.Fonts.Bundled))
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticketapp.toml")
	data := `
addr = ":9090"
base_dir = "/srv/tickets"

[fonts]
system = ["DejaVuSans.ttf"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if got := cfg.TemplatePath(); got != filepath.Join("/srv/tickets", "templates") {
		t.Errorf("TemplatePath() = %q", got)
	}
	if len(cfg.Fonts.System) != 1 || cfg.Fonts.System[0] != "DejaVuSans.ttf" {
		t.Errorf("System = %v", cfg.Fonts.System)
	}
	if len(cfg.Fonts.Bundled) != 6 {
		t.Errorf("Bundled should keep defaults, got %v", cfg.Fonts.Bundled)
	}
	if cfg.Overlays.Arrow != "arrow.png" {
		t.Errorf("Arrow = %q, want default", cfg.Overlays.Arrow)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("addr = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load() error = %v, want INVALID_CONFIG", err)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load(missing) error = %v, want INVALID_CONFIG", err)
	}
}
