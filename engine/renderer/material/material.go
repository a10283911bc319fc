package material

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Side selects which faces of a mesh a material is drawn on.
type Side int

const (
	// SideFront draws counter-clockwise faces only.
	SideFront Side = iota
	// SideBack draws clockwise faces only.
	SideBack
	// SideDouble draws both faces.
	SideDouble
)

// String returns a readable name for the side.
func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideDouble:
		return "double"
	default:
		return "unknown"
	}
}

// material is the implementation of the Material interface.
type material struct {
	name              string
	color             common.Color
	opacity           float32
	transparent       bool
	side              Side
	texture           *common.TextureStagingData
	sampler           common.SamplerStagingData
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines an unlit surface: a tint color, an optional color map and the face culling
// mode. The tint multiplies the sampled color map in the basic shader.
//
// Surface properties are mutable so the owning component can swap the color map once an image
// finishes loading. The bind group provider is attached by the component that initializes the
// material on the Renderer.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the sRGB tint color of the material.
	//
	// Returns:
	//   - common.Color: the tint color
	Color() common.Color

	// SetColor replaces the tint color.
	//
	// Parameters:
	//   - c: the new sRGB tint color
	SetColor(c common.Color)

	// Opacity retrieves the opacity multiplier applied when the material is transparent.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// SetOpacity sets the opacity multiplier, clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// Transparent reports whether the color alpha and opacity are used for blending.
	Transparent() bool

	// Side retrieves the face culling mode of the material.
	Side() Side

	// Texture retrieves the staged color map, or nil when the material has none.
	//
	// Returns:
	//   - *common.TextureStagingData: the staged color map or nil
	Texture() *common.TextureStagingData

	// SetTexture replaces the staged color map. A nil or invalid texture is replaced by a
	// single white pixel so the tint color shows through unchanged.
	//
	// Parameters:
	//   - tex: the new color map
	SetTexture(tex *common.TextureStagingData)

	// Sampler retrieves the sampler configuration for the color map.
	Sampler() common.SamplerStagingData

	// PipelineKey retrieves the key of the render pipeline that matches the material's side.
	//
	// Returns:
	//   - string: one of the basic pipeline keys
	PipelineKey() string

	// UniformColor returns the color written to the draw uniform: the tint converted to linear
	// light, with alpha taken from the color and opacity when transparent and 1 otherwise.
	//
	// Returns:
	//   - [4]float32: the linear RGBA color
	UniformColor() [4]float32

	// BindGroupProvider retrieves the GPU resource provider for this material, or nil when the
	// material has not been initialized on a Renderer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider attaches the GPU resource provider for this material.
	//
	// Parameters:
	//   - provider: the provider holding the uniform buffer, texture and sampler
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance with the provided options.
// The default material is opaque white, front sided and carries a single white pixel color map.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new instance of Material configured with the provided options
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:   common.ColorWhite,
		opacity: 1,
		side:    SideFront,
		sampler: common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeRepeat,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeLinear,
			MinFilter:    wgpu.FilterModeLinear,
			MipmapFilter: wgpu.MipmapFilterModeNearest,
			LodMaxClamp:  32,
		},
	}
	for _, opt := range options {
		opt(m)
	}
	if m.texture == nil || !m.texture.Valid() {
		white := common.SolidTexture(common.ColorWhite)
		m.texture = &white
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) SetColor(c common.Color) {
	m.color = c
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.opacity = common.Clamp(opacity, 0, 1)
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Side() Side {
	return m.side
}

func (m *material) Texture() *common.TextureStagingData {
	return m.texture
}

func (m *material) SetTexture(tex *common.TextureStagingData) {
	if tex == nil || !tex.Valid() {
		white := common.SolidTexture(common.ColorWhite)
		tex = &white
	}
	m.texture = tex
}

func (m *material) Sampler() common.SamplerStagingData {
	return m.sampler
}

func (m *material) PipelineKey() string {
	switch m.side {
	case SideBack:
		return pipeline.KeyBasicBack
	case SideDouble:
		return pipeline.KeyBasicDouble
	default:
		return pipeline.KeyBasicFront
	}
}

func (m *material) UniformColor() [4]float32 {
	lin := m.color.Linear()
	alpha := float32(1)
	if m.transparent {
		alpha = common.Clamp(m.color.A*m.opacity, 0, 1)
	}
	return [4]float32{lin.R, lin.G, lin.B, alpha}
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
