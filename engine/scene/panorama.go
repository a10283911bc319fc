package scene

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
)

const (
	// DefaultPanoramaRadius is the radius of the panorama sphere in world units.
	DefaultPanoramaRadius = 500
	// DefaultWidthSegments is the number of longitudinal segments of the panorama sphere.
	DefaultWidthSegments = 60
	// DefaultHeightSegments is the number of latitudinal segments of the panorama sphere.
	DefaultHeightSegments = 40
)

// DefaultFallbackColor is drawn on the sphere until an image loads, and instead of an image
// that fails to load.
var DefaultFallbackColor = common.ColorFromHex(0x333333, 1)

type panoramaConfig struct {
	radius         float32
	widthSegments  int
	heightSegments int
	fallback       common.Color
}

// PanoramaOption configures the sphere built by NewPanorama.
type PanoramaOption func(*panoramaConfig)

// WithRadius sets the sphere radius.
//
// Parameters:
//   - radius: the radius in world units, non-positive values are ignored
//
// Returns:
//   - PanoramaOption: option function to apply
func WithRadius(radius float32) PanoramaOption {
	return func(c *panoramaConfig) {
		if radius > 0 {
			c.radius = radius
		}
	}
}

// WithSegments sets the sphere tessellation.
//
// Parameters:
//   - width: the longitudinal segment count
//   - height: the latitudinal segment count
//
// Returns:
//   - PanoramaOption: option function to apply
func WithSegments(width, height int) PanoramaOption {
	return func(c *panoramaConfig) {
		c.widthSegments = width
		c.heightSegments = height
	}
}

// WithFallbackColor sets the color drawn while no image is applied.
//
// Parameters:
//   - color: the sRGB fallback color
//
// Returns:
//   - PanoramaOption: option function to apply
func WithFallbackColor(color common.Color) PanoramaOption {
	return func(c *panoramaConfig) {
		c.fallback = color
	}
}

// NewPanorama builds the inward facing sphere the panorama image is mapped onto. Until a texture
// is applied with ApplyPanoramaTexture the sphere shows the fallback color.
//
// Parameters:
//   - options: a variadic list of PanoramaOption functions
//
// Returns:
//   - model.Model: the sphere model
func NewPanorama(options ...PanoramaOption) model.Model {
	cfg := panoramaConfig{
		radius:         DefaultPanoramaRadius,
		widthSegments:  DefaultWidthSegments,
		heightSegments: DefaultHeightSegments,
		fallback:       DefaultFallbackColor,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	mat := material.NewMaterial(
		material.WithName("panorama"),
		material.WithColor(cfg.fallback),
		material.WithSide(material.SideFront),
	)
	mesh := model.NewSphereMesh(cfg.radius, cfg.widthSegments, cfg.heightSegments, true)
	return model.NewModel(mesh, mat, model.WithLabel("Panorama"))
}

// ApplyPanoramaTexture replaces the sphere's color map with a loaded image and clears the
// fallback tint so the image shows unmodified.
//
// Parameters:
//   - s: the scene holding the sphere
//   - r: the renderer to allocate on
//   - sphere: the sphere built by NewPanorama
//   - tex: the decoded image
//
// Returns:
//   - error: an error if the texture could not be created, the fallback stays visible
func ApplyPanoramaTexture(s Scene, r renderer.Renderer, sphere model.Model, tex common.TextureStagingData) error {
	if err := s.ReplaceTexture(r, sphere, tex); err != nil {
		return err
	}
	sphere.Material().SetColor(common.ColorWhite)
	return nil
}
