package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"LocalSketch/internal/export"
	"LocalSketch/internal/state"
	"LocalSketch/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localsketch.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5*time.Second, cfg.Autosave.Interval)
	assert.Equal(t, "savedDrawing", cfg.Storage.Key)
	assert.Equal(t, export.PNG, cfg.ExportFormat())

	style, err := cfg.InitialStyle()
	require.NoError(t, err)
	assert.Equal(t, state.DefaultStyle(), style)
}

func TestExampleFileMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "localsketch.example.toml"))
	require.NoError(t, err)

	want := Default()
	want.Style.Background = "white"
	assert.Equal(t, want, cfg)

	style, err := cfg.InitialStyle()
	require.NoError(t, err)
	assert.Equal(t, state.DefaultStyle(), style)
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[style]
pen = "#100000"
background = "#333333"
width = 7.5

[autosave]
interval = "250ms"

[storage]
backend = "file"
dir = "/tmp/sketch"
max_bytes = 1048576

[export]
format = "pdf"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Autosave.Interval)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 1048576, cfg.Storage.MaxBytes)
	assert.Equal(t, "savedDrawing", cfg.Storage.Key)
	assert.Equal(t, export.PDF, cfg.ExportFormat())
	assert.Equal(t, "drawing", cfg.Export.Name)

	style, err := cfg.InitialStyle()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x10, A: 0xff}, style.PenColor)
	assert.Equal(t, color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}, style.BackgroundColor)
	assert.Equal(t, float32(7.5), style.StrokeWidth)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"zero interval":    func(c *Config) { c.Autosave.Interval = 0 },
		"zero width":       func(c *Config) { c.Style.Width = 0 },
		"bad pen":          func(c *Config) { c.Style.Pen = "chartreuse-ish" },
		"bad background":   func(c *Config) { c.Style.Background = "#12" },
		"bad backend":      func(c *Config) { c.Storage.Backend = "s3" },
		"file without dir": func(c *Config) { c.Storage.Backend = "file" },
		"empty key":        func(c *Config) { c.Storage.Key = "" },
		"dot key":          func(c *Config) { c.Storage.Key = "." },
		"parent key":       func(c *Config) { c.Storage.Key = ".." },
		"bad format":       func(c *Config) { c.Export.Format = "gif" },
		"empty name":       func(c *Config) { c.Export.Name = "" },
		"zero window":      func(c *Config) { c.Window.Height = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateKeyError(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.Dir = t.TempDir()
	cfg.Storage.Key = ".."
	assert.ErrorIs(t, cfg.Validate(), store.ErrBadKey)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "[autosave]\ninterval = \"-1s\"\n")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeConfig(t, "this is = not toml [")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/localsketch.toml")
	assert.Equal(t, "a.toml", Path([]string{"a.toml"}))
	assert.Equal(t, "/etc/localsketch.toml", Path(nil))
}
