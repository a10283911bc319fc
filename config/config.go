// Package config loads the viewer settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"gopkg.in/yaml.v3"
)

// Config is the full viewer configuration. Absent keys keep the values from Default.
type Config struct {
	// Image is the path of the equirectangular panorama to show.
	Image    string         `yaml:"image"`
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Camera   CameraConfig   `yaml:"camera"`
	Controls ControlsConfig `yaml:"controls"`
	Sphere   SphereConfig   `yaml:"sphere"`
	Minimap  MinimapConfig  `yaml:"minimap"`
	Loader   LoaderConfig   `yaml:"loader"`
	Logging  LoggingConfig  `yaml:"logging"`
	// Profile logs frame rate and memory statistics once per second.
	Profile bool `yaml:"profile"`

	// LoadedFrom is the file the configuration was read from, empty for defaults.
	LoadedFrom string `yaml:"-"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type RendererConfig struct {
	VSync bool `yaml:"vsync"`
	// MSAA is the sample count: 1, 4, 8 or 16.
	MSAA          int  `yaml:"msaa"`
	ForceSoftware bool `yaml:"force_software"`
}

type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

type ControlsConfig struct {
	Damping          bool    `yaml:"damping"`
	DampingFactor    float32 `yaml:"damping_factor"`
	RotateSpeed      float32 `yaml:"rotate_speed"`
	ZoomSpeed        float32 `yaml:"zoom_speed"`
	MinDistance      float32 `yaml:"min_distance"`
	MaxDistance      float32 `yaml:"max_distance"`
	AutoRotate       bool    `yaml:"auto_rotate"`
	AutoRotateSpeed  float32 `yaml:"auto_rotate_speed"`
	CommandZoomSpeed float32 `yaml:"command_zoom_speed"`
	ZoomFloor        float32 `yaml:"zoom_floor"`
	ZoomCeiling      float32 `yaml:"zoom_ceiling"`
	KeyOrbitStep     float32 `yaml:"key_orbit_step"`
}

type SphereConfig struct {
	Radius         float32 `yaml:"radius"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
	// FallbackColor is shown until the panorama is loaded, as "#rrggbb".
	FallbackColor string `yaml:"fallback_color"`
}

type MinimapConfig struct {
	Size   int `yaml:"size"`
	Margin int `yaml:"margin"`
}

type LoaderConfig struct {
	Workers        int `yaml:"workers"`
	MaxTextureSize int `yaml:"max_texture_size"`
}

type LoggingConfig struct {
	Debug  bool   `yaml:"debug"`
	Prefix string `yaml:"prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Panorama Viewer",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			VSync: true,
			MSAA:  4,
		},
		Camera: CameraConfig{
			FOV:  75,
			Near: 0.1,
			Far:  1000,
		},
		Controls: ControlsConfig{
			Damping:          true,
			DampingFactor:    0.05,
			RotateSpeed:      -0.5,
			ZoomSpeed:        1,
			MinDistance:      100,
			MaxDistance:      500,
			AutoRotate:       true,
			AutoRotateSpeed:  0.1,
			CommandZoomSpeed: 2,
			ZoomFloor:        1,
			ZoomCeiling:      1000,
			KeyOrbitStep:     0.1,
		},
		Sphere: SphereConfig{
			Radius:         500,
			WidthSegments:  60,
			HeightSegments: 40,
			FallbackColor:  "#333333",
		},
		Minimap: MinimapConfig{
			Size:   150,
			Margin: 20,
		},
		Loader: LoaderConfig{
			Workers:        2,
			MaxTextureSize: 8192,
		},
		Logging: LoggingConfig{
			Prefix: "panorama",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
//
// Parameters:
//   - filename: the config file path
//
// Returns:
//   - *Config: the loaded configuration
//   - error: an error if the file cannot be read, parsed or fails validation
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.LoadedFrom = filename

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0,
		"window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)

	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		errs = append(errs, fmt.Errorf("renderer.msaa must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA))
	}

	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180) degrees, got %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near,
		"camera clip planes must satisfy 0 < near < far, got near %g far %g", c.Camera.Near, c.Camera.Far)

	ctl := c.Controls
	check(ctl.DampingFactor > 0 && ctl.DampingFactor <= 1,
		"controls.damping_factor must be in (0, 1], got %g", ctl.DampingFactor)
	check(ctl.MinDistance > 0 && ctl.MinDistance <= ctl.MaxDistance,
		"controls distance bounds must satisfy 0 < min_distance <= max_distance, got %g and %g",
		ctl.MinDistance, ctl.MaxDistance)
	check(ctl.ZoomFloor > 0 && ctl.ZoomFloor <= ctl.ZoomCeiling,
		"controls zoom limits must satisfy 0 < zoom_floor <= zoom_ceiling, got %g and %g",
		ctl.ZoomFloor, ctl.ZoomCeiling)
	check(ctl.MinDistance >= ctl.ZoomFloor && ctl.MaxDistance <= ctl.ZoomCeiling,
		"controls distance bounds [%g, %g] must lie within [zoom_floor, zoom_ceiling] = [%g, %g]",
		ctl.MinDistance, ctl.MaxDistance, ctl.ZoomFloor, ctl.ZoomCeiling)
	check(ctl.CommandZoomSpeed > 0 && ctl.CommandZoomSpeed < 10,
		"controls.command_zoom_speed must be in (0, 10), got %g", ctl.CommandZoomSpeed)
	check(ctl.ZoomSpeed > 0, "controls.zoom_speed must be positive, got %g", ctl.ZoomSpeed)

	check(c.Sphere.Radius > 0, "sphere.radius must be positive, got %g", c.Sphere.Radius)
	check(c.Sphere.WidthSegments >= 3 && c.Sphere.HeightSegments >= 2,
		"sphere segments must be at least 3x2, got %dx%d", c.Sphere.WidthSegments, c.Sphere.HeightSegments)
	if _, err := common.ParseHexColor(c.Sphere.FallbackColor); err != nil {
		errs = append(errs, fmt.Errorf("sphere.fallback_color: %w", err))
	}

	check(c.Minimap.Size > 0, "minimap.size must be positive, got %d", c.Minimap.Size)
	check(c.Minimap.Margin >= 0, "minimap.margin must not be negative, got %d", c.Minimap.Margin)
	check(c.Loader.Workers > 0, "loader.workers must be positive, got %d", c.Loader.Workers)
	check(c.Loader.MaxTextureSize > 0, "loader.max_texture_size must be positive, got %d", c.Loader.MaxTextureSize)

	return errors.Join(errs...)
}
