package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestTargetResolve(t *testing.T) {
	full := Target{Label: "main"}
	assert.Equal(t, common.Rect{Width: 800, Height: 600}, full.Resolve(800, 600))

	corner := Target{Viewport: func(w, h int) common.Rect {
		return common.Rect{X: w - 170, Y: 20, Width: 150, Height: 150}
	}}
	assert.Equal(t, common.Rect{X: 630, Y: 20, Width: 150, Height: 150}, corner.Resolve(800, 600))

	// Partly off-surface regions are clipped, fully off-surface ones are empty.
	assert.Equal(t, common.Rect{X: 0, Y: 20, Width: 80, Height: 80}, corner.Resolve(100, 100))
	assert.True(t, corner.Resolve(100, 10).Empty())
}

func TestPreferredSurfaceFormat(t *testing.T) {
	f, ok := preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb})
	assert.True(t, ok)
	assert.Equal(t, wgpu.TextureFormatBGRA8UnormSrgb, f)

	f, ok = preferredSurfaceFormat([]wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float})
	assert.True(t, ok)
	assert.Equal(t, wgpu.TextureFormatRGBA16Float, f)

	_, ok = preferredSurfaceFormat(nil)
	assert.False(t, ok)
}

func TestMSAASampleCountValid(t *testing.T) {
	for _, c := range []MSAASampleCount{MSAAOff, MSAA4x, MSAA8x, MSAA16x} {
		assert.True(t, c.Valid())
	}
	assert.False(t, MSAASampleCount(2).Valid())
	assert.False(t, MSAASampleCount(0).Valid())
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "shared", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		1: {Label: "fragment only"},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)

	assert.Len(t, merged, 2)
	assert.Equal(t, "fragment only", merged[1].Label)
	entries := merged[0].Entries
	if assert.Len(t, entries, 2) {
		assert.Equal(t, uint32(0), entries[0].Binding)
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entries[0].Visibility)
		assert.Equal(t, uint32(1), entries[1].Binding)
	}
}
