package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func project(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	clip := m.Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip.W())
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, 75*math.Pi/180, c.Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(1000), c.Far())
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, c.Direction(), 0)
}

func TestCameraProjectsTargetToCentre(t *testing.T) {
	ctrl := NewOrbitController(WithAutoRotate(false, 0))
	c := NewCamera(WithController(ctrl), WithAspect(16.0/9.0))
	c.Update()

	ndc := project(c.ViewProjectionMatrix(), ctrl.Target())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.Greater(t, ndc.Z(), float32(0))
	assert.Less(t, ndc.Z(), float32(1))

	assertVec3InDelta(t, ctrl.Direction(), c.Direction(), 0)
}

func TestCameraSetAspect(t *testing.T) {
	c := NewCamera()

	c.SetAspect(2)
	assert.Equal(t, float32(2), c.Aspect())

	c.SetAspect(0)
	c.SetAspect(float32(math.NaN()))
	c.SetAspect(-1)
	assert.Equal(t, float32(2), c.Aspect())
}

func TestOrthographicCameraDefaultFramesUnitSquare(t *testing.T) {
	c := NewOrthographicCamera()
	vp := c.ViewProjectionMatrix()

	top := project(vp, mgl32.Vec3{1, 1, 0})
	bottom := project(vp, mgl32.Vec3{-1, -1, 0})

	assert.InDelta(t, 1, top.X(), 1e-5)
	assert.InDelta(t, 1, top.Y(), 1e-5)
	assert.InDelta(t, -1, bottom.X(), 1e-5)
	assert.InDelta(t, -1, bottom.Y(), 1e-5)
	assert.Greater(t, top.Z(), float32(0))
	assert.Less(t, top.Z(), float32(1))
}

func TestOrthographicCameraPixelSpace(t *testing.T) {
	c := NewOrthographicCamera()
	c.SetBounds(0, 800, 0, 600)

	vp := c.ViewProjectionMatrix()
	topLeft := project(vp, mgl32.Vec3{0, 0, 0})
	bottomRight := project(vp, mgl32.Vec3{800, 600, 0})

	assert.InDelta(t, -1, topLeft.X(), 1e-5)
	assert.InDelta(t, 1, topLeft.Y(), 1e-5)
	assert.InDelta(t, 1, bottomRight.X(), 1e-5)
	assert.InDelta(t, -1, bottomRight.Y(), 1e-5)

	l, r, top, b := c.Bounds()
	assert.Equal(t, [4]float32{0, 800, 0, 600}, [4]float32{l, r, top, b})
}
