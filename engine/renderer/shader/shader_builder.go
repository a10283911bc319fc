package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point (vs_main or fs_main).
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithBindGroupLayout declares the layout of one bind group used by the shader.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the layout descriptor
//
// Returns:
//   - ShaderBuilderOption: a function that records the layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts declares the vertex buffer layouts consumed by a vertex shader.
//
// Parameters:
//   - layouts: the vertex buffer layouts in slot order
//
// Returns:
//   - ShaderBuilderOption: a function that records the layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}
