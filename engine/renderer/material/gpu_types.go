package material

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUDrawUniform is the per-draw uniform of the basic unlit shader.
// Matches the WGSL DrawUniform struct layout exactly.
// Size: 80 bytes (mat4x4<f32> followed by vec4<f32>).
type GPUDrawUniform struct {
	MVP   [16]float32 // offset 0: column-major model-view-projection matrix (64 bytes)
	Color [4]float32  // offset 64: linear RGBA tint multiplied with the color map (16 bytes)
}

// NewGPUDrawUniform packs a model-view-projection matrix and a tint color into a draw uniform.
//
// Parameters:
//   - mvp: the model-view-projection matrix
//   - color: the linear RGBA tint
//
// Returns:
//   - GPUDrawUniform: the packed uniform
func NewGPUDrawUniform(mvp mgl32.Mat4, color [4]float32) GPUDrawUniform {
	return GPUDrawUniform{MVP: [16]float32(mvp), Color: color}
}

// Size returns the size of the GPUDrawUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUDrawUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, 80)
	for i, v := range g.MVP {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	for i, v := range g.Color {
		off := 64 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
	}
	return buf
}
