package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()

	assert.Equal(t, common.ColorWhite, m.Color())
	assert.Equal(t, SideFront, m.Side())
	assert.False(t, m.Transparent())
	assert.Equal(t, pipeline.KeyBasicFront, m.PipelineKey())
	require.NotNil(t, m.Texture())
	assert.True(t, m.Texture().Valid())
	assert.Equal(t, []byte{255, 255, 255, 255}, m.Texture().Pixels)
	assert.Nil(t, m.BindGroupProvider())
}

func TestPipelineKeyFollowsSide(t *testing.T) {
	assert.Equal(t, pipeline.KeyBasicBack, NewMaterial(WithSide(SideBack)).PipelineKey())
	assert.Equal(t, pipeline.KeyBasicDouble, NewMaterial(WithSide(SideDouble)).PipelineKey())
	assert.Equal(t, "double", SideDouble.String())
}

func TestUniformColor(t *testing.T) {
	opaque := NewMaterial(WithColor(common.ColorFromHex(0xffffff, 0.3)))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, opaque.UniformColor(), "opaque materials ignore alpha")

	translucent := NewMaterial(
		WithColor(common.ColorFromHex(0x000000, 0.5)),
		WithTransparency(0.8),
	)
	c := translucent.UniformColor()
	assert.InDelta(t, 0, c[0], 1e-6)
	assert.InDelta(t, 0.4, c[3], 1e-6)

	translucent.SetOpacity(3)
	assert.Equal(t, float32(1), translucent.Opacity())
}

func TestSetTextureRejectsInvalidData(t *testing.T) {
	m := NewMaterial()
	m.SetTexture(&common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 3)})
	assert.Equal(t, uint32(1), m.Texture().Width)

	img := common.TextureStagingData{Width: 2, Height: 1, Pixels: make([]byte, 8)}
	m.SetTexture(&img)
	assert.Equal(t, uint32(2), m.Texture().Width)
}

func TestGPUDrawUniformMarshal(t *testing.T) {
	u := NewGPUDrawUniform(mgl32.Ident4(), [4]float32{0.25, 0.5, 0.75, 1})
	buf := u.Marshal()

	require.Len(t, buf, u.Size())
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[60:64])))
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(buf[72:76])))
}
