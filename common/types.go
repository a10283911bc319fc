// package common contains common types that are used throughout this viewer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
// This is primarily used in the BindGroupProvider to stage texture data before creating the GPU texture and bind group.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Width uint32
	// Height is the height of the texture in pixels. This is required to correctly create the GPU texture and interpret the pixel data.
	Height uint32
}

// Valid reports whether the staging data describes a non-empty image whose pixel slice matches its dimensions.
func (t TextureStagingData) Valid() bool {
	return t.Width > 0 && t.Height > 0 && len(t.Pixels) == int(t.Width)*int(t.Height)*4
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// This is primarily used in the BindGroupProvider to stage sampler data before creating the GPU sampler and bind group.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers.
	Compare wgpu.CompareFunction
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// Rect is an axis-aligned pixel rectangle with its origin at the top-left corner of a surface.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y float32) bool {
	return x >= float32(r.X) && x < float32(r.X+r.Width) &&
		y >= float32(r.Y) && y < float32(r.Y+r.Height)
}

// Intersect returns the overlap of r and o, or an empty Rect when they do not overlap.
//
// Parameters:
//   - o: the rectangle to intersect with
//
// Returns:
//   - Rect: the overlapping region
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Color is a straight (non-premultiplied) RGBA color with sRGB encoded channels in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorWhite is opaque white.
	ColorWhite = Color{1, 1, 1, 1}
)

// ColorFromHex builds a Color from a 0xRRGGBB value and an alpha channel.
//
// Parameters:
//   - hex: the packed 24-bit sRGB color
//   - alpha: the alpha channel in [0, 1]
//
// Returns:
//   - Color: the unpacked color
func ColorFromHex(hex uint32, alpha float32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
		A: alpha,
	}
}

// ColorFromRGBA8 builds a Color from 8-bit channels.
func ColorFromRGBA8(r, g, b uint8, alpha float32) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: alpha}
}

// ParseHexColor parses a "#rrggbb" or "rrggbb" string into an opaque Color.
//
// Parameters:
//   - s: the hex string
//
// Returns:
//   - Color: the parsed color
//   - error: an error if the string is not a 6 digit hex color
func ParseHexColor(s string) (Color, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(trimmed) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return ColorFromHex(uint32(v), 1), nil
}

// Linear converts the sRGB encoded color channels into linear light for output on an sRGB surface.
// Alpha is left untouched.
func (c Color) Linear() Color {
	return Color{R: srgbToLinear(c.R), G: srgbToLinear(c.G), B: srgbToLinear(c.B), A: c.A}
}

// RGBA8 returns the color quantised to 8-bit channels.
func (c Color) RGBA8() [4]uint8 {
	q := func(v float32) uint8 {
		return uint8(math.Round(float64(Clamp(v, 0, 1)) * 255))
	}
	return [4]uint8{q(c.R), q(c.G), q(c.B), q(c.A)}
}

// SolidTexture returns a 1x1 staging texture filled with the given color.
//
// Parameters:
//   - c: the fill color
//
// Returns:
//   - TextureStagingData: a single pixel RGBA texture
func SolidTexture(c Color) TextureStagingData {
	px := c.RGBA8()
	return TextureStagingData{
		Pixels: []byte{px[0], px[1], px[2], px[3]},
		Width:  1,
		Height: 1,
	}
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}
