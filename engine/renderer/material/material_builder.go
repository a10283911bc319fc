package material

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the sRGB tint color of the material.
//
// Parameters:
//   - c: the tint color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = c
	}
}

// WithTransparency is an option builder that enables alpha blending with the given opacity.
//
// Parameters:
//   - opacity: the opacity multiplier, clamped to [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparency(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = true
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithSide is an option builder that sets which faces the material is drawn on.
//
// Parameters:
//   - side: the face culling mode
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *material) {
		m.side = side
	}
}

// WithTexture is an option builder that sets the staged color map of the material.
//
// Parameters:
//   - tex: the RGBA color map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.texture = &tex
	}
}

// WithSampler is an option builder that overrides the color map sampler configuration.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(s common.SamplerStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = s
	}
}
