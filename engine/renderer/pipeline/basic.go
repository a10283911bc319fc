package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Keys of the basic unlit pipelines, one per face culling variant.
const (
	// KeyBasicFront draws only counter-clockwise (front) faces.
	KeyBasicFront = "basic_front"
	// KeyBasicBack draws only clockwise (back) faces.
	KeyBasicBack = "basic_back"
	// KeyBasicDouble draws both faces.
	KeyBasicDouble = "basic_double"
)

// NewBasicPipelines creates the three culling variants of the basic unlit pipeline.
// All variants share the same shader stages and blend straight alpha.
//
// Returns:
//   - []Pipeline: the front, back and double sided pipelines
//   - error: an error if the shader stages could not be created
func NewBasicPipelines() ([]Pipeline, error) {
	vs, fs, err := shader.NewBasicShaders()
	if err != nil {
		return nil, fmt.Errorf("failed to create basic shaders: %w", err)
	}
	stages := []PipelineBuilderOption{WithVertexShader(vs), WithFragmentShader(fs)}

	return []Pipeline{
		NewPipeline(KeyBasicFront, append(stages, WithCullMode(wgpu.CullModeBack))...),
		NewPipeline(KeyBasicBack, append(stages, WithCullMode(wgpu.CullModeFront))...),
		NewPipeline(KeyBasicDouble, append(stages, WithCullMode(wgpu.CullModeNone))...),
	}, nil
}
