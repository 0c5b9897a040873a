// Package config loads the TOML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/persist"
	"LocalSketch/internal/state"
	"LocalSketch/internal/store"

	"github.com/BurntSushi/toml"
)

const EnvPath = "LOCALSKETCH_CONFIG"

type Config struct {
	Window   Window   `toml:"window"`
	Style    Style    `toml:"style"`
	Autosave Autosave `toml:"autosave"`
	Storage  Storage  `toml:"storage"`
	Export   Export   `toml:"export"`
}

type Window struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type Style struct {
	Pen        string  `toml:"pen"`
	Background string  `toml:"background"`
	Width      float32 `toml:"width"`
}

type Autosave struct {
	Interval time.Duration `toml:"interval"`
}

type Storage struct {
	Backend  string `toml:"backend"` // preferences, file or memory
	Dir      string `toml:"dir"`
	Key      string `toml:"key"`
	MaxBytes int    `toml:"max_bytes"`
}

type Export struct {
	Name   string `toml:"name"`
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Window:   Window{Title: "Local Sketch", Width: 1024, Height: 768},
		Style:    Style{Pen: "#000000", Background: "#ffffff", Width: 5},
		Autosave: Autosave{Interval: persist.DefaultInterval},
		Storage:  Storage{Backend: "preferences", Key: persist.DefaultKey},
		Export:   Export{Name: persist.DefaultExportName, Format: string(export.PNG)},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Path picks the config file: the first argument if given, else $LOCALSKETCH_CONFIG.
func Path(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return os.Getenv(EnvPath)
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %vx%v", c.Window.Width, c.Window.Height)
	}
	if c.Style.Width <= 0 {
		return fmt.Errorf("style.width must be positive, got %v", c.Style.Width)
	}
	if _, err := c.InitialStyle(); err != nil {
		return err
	}
	if c.Autosave.Interval <= 0 {
		return fmt.Errorf("autosave.interval must be positive, got %s", c.Autosave.Interval)
	}
	switch c.Storage.Backend {
	case "preferences", "memory":
	case "file":
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for the file backend")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	if err := store.CheckFileKey(c.Storage.Key); err != nil {
		return fmt.Errorf("storage.key: %w", err)
	}
	if c.Export.Name == "" {
		return errors.New("export.name must not be empty")
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	return nil
}

// InitialStyle is the pen style the board starts with.
func (c Config) InitialStyle() (state.Style, error) {
	pen, err := state.ParseColor(c.Style.Pen)
	if err != nil {
		return state.Style{}, fmt.Errorf("style.pen: %w", err)
	}
	bg, err := state.ParseColor(c.Style.Background)
	if err != nil {
		return state.Style{}, fmt.Errorf("style.background: %w", err)
	}
	return state.Style{
		Tool:            state.ToolPen,
		PenColor:        pen,
		BackgroundColor: bg,
		StrokeWidth:     c.Style.Width,
	}, nil
}

// ExportFormat is the configured default export format.
func (c Config) ExportFormat() export.Format {
	f, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return export.PNG
	}
	return f
}
