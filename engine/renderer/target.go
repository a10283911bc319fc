package renderer

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
)

// Target describes one render pass of a frame: which region of the surface it draws into and
// whether that region is cleared first.
type Target struct {
	// Label names the render pass for debugging.
	Label string
	// Viewport computes the pass region from the current surface size. A nil Viewport covers
	// the whole surface.
	Viewport func(surfaceWidth, surfaceHeight int) common.Rect
	// Clear selects whether the region is cleared to ClearColor before drawing. When false the
	// previous contents of the frame are kept.
	Clear bool
	// ClearColor is the sRGB color used when Clear is set.
	ClearColor common.Color
}

// Resolve returns the pass region clipped to the surface bounds.
//
// Parameters:
//   - surfaceWidth: the current surface width in pixels
//   - surfaceHeight: the current surface height in pixels
//
// Returns:
//   - common.Rect: the clipped pass region, empty when nothing of it is on the surface
func (t Target) Resolve(surfaceWidth, surfaceHeight int) common.Rect {
	surface := common.Rect{Width: surfaceWidth, Height: surfaceHeight}
	if t.Viewport == nil {
		return surface
	}
	return t.Viewport(surfaceWidth, surfaceHeight).Intersect(surface)
}
