package loader

import (
	"image"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"golang.org/x/image/draw"
)

// DefaultMaxTextureSize is the largest 2D texture dimension every WebGPU adapter supports.
const DefaultMaxTextureSize = 8192

// fitWithin returns the largest size with the same aspect ratio as (w, h) that fits in a
// maxSize square. Sizes that already fit are returned unchanged.
func fitWithin(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, h*maxSize/w)
	}
	return max(1, w*maxSize/h), maxSize
}

// toStagingData converts a decoded image into straight-alpha RGBA8 pixels ready for upload.
// Images larger than maxSize in either dimension are downscaled with Catmull-Rom filtering.
//
// Parameters:
//   - img: the decoded image
//   - maxSize: the maximum texture dimension, 0 for no limit
//
// Returns:
//   - common.TextureStagingData: the pixels with the top row first
func toStagingData(img image.Image, maxSize int) common.TextureStagingData {
	src := img.Bounds()
	w, h := fitWithin(src.Dx(), src.Dy(), maxSize)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		if n, ok := img.(*image.NRGBA); ok && n.Stride == w*4 && src.Min == (image.Point{}) {
			copy(dst.Pix, n.Pix)
		} else {
			draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		}
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}

	return common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}
}
