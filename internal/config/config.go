// Package config loads the TOML configuration shared by the server and the CLI.
package config

import (
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/youruser/ticketapp/internal/errors"
)

// Config is the process-wide configuration. It is read once at startup and
// treated as immutable afterwards.
type Config struct {
	Addr        string   `toml:"addr"`
	BaseDir     string   `toml:"base_dir"`
	TemplateDir string   `toml:"template_dir"`
	Fonts       Fonts    `toml:"fonts"`
	Overlays    Overlays `toml:"overlays"`
}

// Fonts lists the fallback fonts tried after an explicit font path.
// Bundled entries are relative to BaseDir; System entries are file names
// searched for in the platform font directories.
type Fonts struct {
	Bundled []string `toml:"bundled"`
	System  []string `toml:"system"`
}

// Overlays names the optional stamp and arrow images, relative to the
// template asset directory.
type Overlays struct {
	Stamp  string `toml:"stamp"`
	StampX int    `toml:"stamp_x"`
	StampY int    `toml:"stamp_y"`
	Arrow  string `toml:"arrow"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:        ":8080",
		BaseDir:     ".",
		TemplateDir: "templates",
		Fonts: Fonts{
			Bundled: []string{
				"fonts/TrainTicketFont2.ttf",
				"fonts/simsun.ttc",
				"fonts/simhei.ttf",
				"fonts/times.ttf",
				"fonts/timesbd.ttf",
				"fonts/方正黑体简体.ttf",
			},
			System: []string{"simhei.ttf", "times.ttf"},
		},
		Overlays: Overlays{
			Stamp:  "1234.png",
			StampX: 90,
			StampY: 460,
			Arrow:  "arrow.png",
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "loading %s", path)
	}
	return cfg, nil
}

// TemplatePath resolves the template directory against BaseDir.
func (c Config) TemplatePath() string {
	if filepath.IsAbs(c.TemplateDir) {
		return c.TemplateDir
	}
	return filepath.Join(c.BaseDir, c.TemplateDir)
}
