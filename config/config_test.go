package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "panorama.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `image: "room.jpg"
window:
  width: 800
controls:
  auto_rotate: false
  min_distance: 50
sphere:
  fallback_color: "#101010"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.LoadedFrom)
	assert.Equal(t, "room.jpg", cfg.Image)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "absent keys keep defaults")
	assert.False(t, cfg.Controls.AutoRotate)
	assert.Equal(t, float32(50), cfg.Controls.MinDistance)
	assert.Equal(t, float32(500), cfg.Controls.MaxDistance)
	assert.Equal(t, "#101010", cfg.Sphere.FallbackColor)
	assert.Equal(t, 150, cfg.Minimap.Size)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "window: [1, 2\n"))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(writeConfig(t, "renderer:\n  msaa: 3\n"))
	assert.ErrorContains(t, err, "renderer.msaa")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero window", mutate: func(c *Config) { c.Window.Width = 0 }, want: "window size"},
		{name: "inverted bounds", mutate: func(c *Config) { c.Controls.MinDistance = 600 }, want: "min_distance <= max_distance"},
		{name: "bounds past ceiling", mutate: func(c *Config) { c.Controls.MaxDistance = 2000 }, want: "must lie within"},
		{name: "damping", mutate: func(c *Config) { c.Controls.DampingFactor = 1.5 }, want: "damping_factor"},
		{name: "colour", mutate: func(c *Config) { c.Sphere.FallbackColor = "grey" }, want: "fallback_color"},
		{name: "clip planes", mutate: func(c *Config) { c.Camera.Far = 0.01 }, want: "clip planes"},
		{name: "segments", mutate: func(c *Config) { c.Sphere.WidthSegments = 2 }, want: "segments"},
		{name: "workers", mutate: func(c *Config) { c.Loader.Workers = 0 }, want: "loader.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Window.Height = -1
	cfg.Minimap.Size = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "window size")
	assert.ErrorContains(t, err, "minimap.size")
}
