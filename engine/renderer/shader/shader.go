package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a Shader is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is a vertex stage shader.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a fragment stage shader.
	ShaderTypeFragment
)

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
}

// Shader holds WGSL source for one pipeline stage together with the resource layouts the stage
// expects. Layouts are declared explicitly through builder options rather than parsed from source.
type Shader interface {
	// Key returns the unique identifier of the shader, also used as its GPU debug label.
	Key() string

	// Source returns the WGSL source code.
	Source() string

	// ShaderType returns the stage this shader is compiled for.
	ShaderType() ShaderType

	// EntryPoint returns the name of the WGSL entry point function.
	EntryPoint() string

	// BindGroupLayoutDescriptor returns the layout of the given bind group, or an empty descriptor.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout descriptor
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every declared bind group layout keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VertexLayouts returns the vertex buffer layouts consumed by a vertex shader.
	VertexLayouts() []wgpu.VertexBufferLayout
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source.
//
// Parameters:
//   - key: the unique identifier for the shader
//   - shaderType: the pipeline stage
//   - source: the WGSL source code
//   - options: a variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: the configured shader
//   - error: an error if the source or entry point is missing
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: empty source", key)
	}
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	switch shaderType {
	case ShaderTypeVertex:
		s.entryPoint = "vs_main"
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	}
	for _, opt := range options {
		opt(s)
	}
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point", key)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}
