package shader

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/basic.wgsl
var basicSource string

const (
	// BasicUniformBinding is the binding of the draw uniform (mvp + color).
	BasicUniformBinding = 0
	// BasicTextureBinding is the binding of the color map.
	BasicTextureBinding = 1
	// BasicSamplerBinding is the binding of the color map sampler.
	BasicSamplerBinding = 2

	// BasicUniformSize is the byte size of the draw uniform: a 4x4 matrix followed by a vec4.
	BasicUniformSize = 80
	// BasicVertexStride is the byte stride of one vertex: vec3 position followed by vec2 uv.
	BasicVertexStride = 20
)

// BasicBindGroupLayout returns the layout of bind group 0 of the basic unlit shader.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout shared by every basic material
func BasicBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Basic Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BasicUniformBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: BasicUniformSize,
				},
			},
			{
				Binding:    BasicTextureBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BasicSamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// BasicVertexLayout returns the vertex buffer layout of the basic unlit shader.
//
// Returns:
//   - wgpu.VertexBufferLayout: position at location 0, uv at location 1
func BasicVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: BasicVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// NewBasicShaders returns the vertex and fragment stages of the basic unlit shader.
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
//   - error: an error if either stage could not be created
func NewBasicShaders() (Shader, Shader, error) {
	layout := WithBindGroupLayout(0, BasicBindGroupLayout())
	vs, err := NewShader("basic_vs", ShaderTypeVertex, basicSource, layout, WithVertexLayouts(BasicVertexLayout()))
	if err != nil {
		return nil, nil, err
	}
	fs, err := NewShader("basic_fs", ShaderTypeFragment, basicSource, layout)
	if err != nil {
		return nil, nil, err
	}
	return vs, fs, nil
}
