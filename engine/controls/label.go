package controls

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var labelFace = basicfont.Face7x13

// labelHeight is the line height of labelFace in pixels.
const labelHeight = 13

var labelSampler = common.SamplerStagingData{
	AddressModeU:  wgpu.AddressModeClampToEdge,
	AddressModeV:  wgpu.AddressModeClampToEdge,
	AddressModeW:  wgpu.AddressModeClampToEdge,
	MagFilter:     wgpu.FilterModeNearest,
	MinFilter:     wgpu.FilterModeNearest,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// rasterizeLabel draws a single line of white text onto a transparent texture sized to fit it.
func rasterizeLabel(label string) common.TextureStagingData {
	metrics := labelFace.Metrics()
	width := max(font.MeasureString(labelFace, label).Ceil(), 1)

	img := image.NewNRGBA(image.Rect(0, 0, width, labelHeight))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: labelFace,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(label)

	return common.TextureStagingData{
		Pixels: img.Pix,
		Width:  uint32(width),
		Height: labelHeight,
	}
}
