package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ClipSpaceCorrection remaps OpenGL-style clip space depth [-1, 1] produced by mgl32 projection
// helpers into the [0, 1] depth range WebGPU expects. Left-multiply it onto a projection matrix.
var ClipSpaceCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// WrapAngle wraps an angle in radians into the half-open range [-π, π).
//
// Parameters:
//   - angle: the angle in radians
//
// Returns:
//   - float32: the equivalent angle in [-π, π)
func WrapAngle(angle float32) float32 {
	a := math.Mod(float64(angle)+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return float32(a - math.Pi)
}

// IsFinite reports whether every value is neither NaN nor an infinity.
func IsFinite(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
