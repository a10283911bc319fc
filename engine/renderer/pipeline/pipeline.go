package pipeline

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// GPU objects created by the renderer backend in RegisterPipelines.
	renderPipeline   *wgpu.RenderPipeline
	pipelineLayout   *wgpu.PipelineLayout
	bindGroupLayouts []*wgpu.BindGroupLayout
	shaderModules    []*wgpu.ShaderModule

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
}

// Pipeline describes a render pipeline: its shader stages plus fixed-function state.
// The renderer backend creates the GPU objects and stores them back on the Pipeline.
type Pipeline interface {
	// PipelineKey returns the unique key the pipeline is cached under.
	PipelineKey() string

	// Shader returns the shader for the given stage, or nil.
	//
	// Parameters:
	//   - shaderType: the stage
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the created GPU pipeline, or nil before registration.
	RenderPipeline() *wgpu.RenderPipeline

	BlendEnabled() bool

	CullMode() wgpu.CullMode

	Topology() wgpu.PrimitiveTopology

	FrontFace() wgpu.FrontFace

	WriteMask() wgpu.ColorWriteMask

	BlendState() *wgpu.BlendState

	// SetGPUObjects stores the GPU objects created for this pipeline so they can be released together.
	//
	// Parameters:
	//   - rp: the render pipeline
	//   - layout: the pipeline layout
	//   - bindGroupLayouts: the bind group layouts referenced by the pipeline layout
	//   - modules: the shader modules used by the stages
	SetGPUObjects(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, bindGroupLayouts []*wgpu.BindGroupLayout, modules []*wgpu.ShaderModule)

	// Release releases every GPU object held by the pipeline. Safe to call more than once.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a new render Pipeline with the given key and options.
// Defaults: triangle list, counter-clockwise front faces, no culling, straight alpha blending enabled.
//
// Parameters:
//   - pipelineKey: the unique identifier for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:  pipelineKey,
		blendEnabled: true,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetGPUObjects(rp *wgpu.RenderPipeline, layout *wgpu.PipelineLayout, bindGroupLayouts []*wgpu.BindGroupLayout, modules []*wgpu.ShaderModule) {
	p.renderPipeline = rp
	p.pipelineLayout = layout
	p.bindGroupLayouts = bindGroupLayouts
	p.shaderModules = modules
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.pipelineLayout != nil {
		p.pipelineLayout.Release()
		p.pipelineLayout = nil
	}
	for _, bgl := range p.bindGroupLayouts {
		if bgl != nil {
			bgl.Release()
		}
	}
	p.bindGroupLayouts = nil
	for _, m := range p.shaderModules {
		if m != nil {
			m.Release()
		}
	}
	p.shaderModules = nil
}
