package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const autoRotateStepAtDefaultSpeed = 2 * math.Pi / 3600 * 0.1

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestNewOrbitControllerDefaults(t *testing.T) {
	c := NewOrbitController()

	assert.InDelta(t, 100, c.Distance(), 1e-6, "starting offset is clamped to the minimum distance")
	assert.Equal(t, float32(100), c.MinDistance())
	assert.Equal(t, float32(500), c.MaxDistance())
	assert.True(t, c.AutoRotate())
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 100}, c.Position(), 1e-4)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -1}, c.Direction(), 1e-6)
	assertVec3InDelta(t, mgl32.Vec3{}, c.Target(), 0)
}

func TestZoomInLowersMinimumDistance(t *testing.T) {
	c := NewOrbitController(WithDistance(300), WithAutoRotate(false, 0))
	require.InDelta(t, 300, c.Distance(), 1e-4)

	c.ZoomIn()

	assert.InDelta(t, 240, c.Distance(), 1e-3)
	assert.InDelta(t, 240, c.MinDistance(), 1e-3)
	assert.Equal(t, float32(500), c.MaxDistance())
}

func TestZoomInNeverGoesBelowFloor(t *testing.T) {
	c := NewOrbitController(WithDistanceBounds(1, 500), WithDistance(1.1), WithAutoRotate(false, 0))

	c.ZoomIn()
	assert.InDelta(t, 1, c.MinDistance(), 1e-6)
	assert.InDelta(t, 1, c.Distance(), 1e-6)

	c.ZoomIn()
	assert.InDelta(t, 1, c.MinDistance(), 1e-6)
	assert.InDelta(t, 1, c.Distance(), 1e-6)
}

func TestZoomOutRaisesMaximumUpToCeiling(t *testing.T) {
	c := NewOrbitController(WithDistance(500), WithAutoRotate(false, 0))

	c.ZoomOut()
	assert.InDelta(t, 600, c.Distance(), 1e-3)
	assert.InDelta(t, 600, c.MaxDistance(), 1e-3)

	for range 10 {
		c.ZoomOut()
	}
	assert.InDelta(t, 1000, c.MaxDistance(), 1e-3)
	assert.InDelta(t, 1000, c.Distance(), 1e-3)
}

func TestResetRestoresInitialState(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1))
	c.SetViewportSize(800, 600)

	c.ZoomOut()
	c.ZoomOut()
	c.ZoomIn()
	c.BeginDrag(10, 10)
	c.DragTo(200, 90)
	c.Update()
	c.OrbitUp()

	c.Reset()

	s := c.State()
	assert.InDelta(t, 100, s.Distance, 1e-6)
	assert.Equal(t, float32(100), s.MinDistance)
	assert.Equal(t, float32(500), s.MaxDistance)
	assert.Zero(t, s.Azimuth)
	assert.Zero(t, s.Elevation)
	assert.False(t, s.Dragging)
	assert.True(t, s.AutoRotate, "reset leaves auto-rotate untouched")

	c.SetAutoRotate(false)
	c.Update()
	assert.Zero(t, c.Elevation(), "reset clears pending inertia")
}

func TestDistanceStaysWithinBoundsForAnySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := NewOrbitController()

	for i := range 2000 {
		switch rng.Intn(5) {
		case 0:
			c.ZoomIn()
		case 1:
			c.ZoomOut()
		case 2:
			c.Reset()
		case 3:
			c.Dolly(float32(rng.Intn(7) - 3))
		case 4:
			c.Pinch(0.5 + rng.Float32())
		}
		c.Update()

		s := c.State()
		require.LessOrEqual(t, s.MinDistance, s.Distance, "step %d", i)
		require.GreaterOrEqual(t, s.MaxDistance, s.Distance, "step %d", i)
		require.GreaterOrEqual(t, s.MinDistance, float32(1), "step %d", i)
		require.LessOrEqual(t, s.MaxDistance, float32(1000), "step %d", i)
	}
}

func TestAutoRotateAdvancesAtConstantRate(t *testing.T) {
	c := NewOrbitController()

	prev := c.Azimuth()
	for range 10 {
		c.Update()
		now := c.Azimuth()
		assert.InDelta(t, autoRotateStepAtDefaultSpeed, now-prev, 1e-6)
		prev = now
	}
}

func TestDragSuppressesAutoRotateForThatTick(t *testing.T) {
	c := NewOrbitController()
	c.SetViewportSize(800, 600)
	c.Update()
	before := c.Azimuth()

	// vertical drag only, so any azimuth change would come from idle rotation
	c.BeginDrag(100, 100)
	c.DragTo(100, 130)
	c.EndDrag()
	c.Update()

	assert.InDelta(t, before, c.Azimuth(), 1e-7)
	assert.NotZero(t, c.Elevation())

	c.Update()
	assert.InDelta(t, before+autoRotateStepAtDefaultSpeed, c.Azimuth(), 1e-6)
}

func TestActiveDragSuppressesAutoRotate(t *testing.T) {
	c := NewOrbitController()
	c.SetViewportSize(800, 600)
	c.BeginDrag(50, 50)

	for range 5 {
		c.Update()
	}
	assert.Zero(t, c.Azimuth())
	assert.True(t, c.Dragging())
}

func TestDragRotatesContentWithPointer(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1), WithAutoRotate(false, 0))
	c.SetViewportSize(800, 600)

	c.BeginDrag(100, 100)
	c.DragTo(160, 100)
	c.Update()

	assert.InDelta(t, math.Pi/10, c.Azimuth(), 1e-5)
	assert.Zero(t, c.Elevation())
}

func TestDampingSpreadsRotationOverTicks(t *testing.T) {
	c := NewOrbitController(WithAutoRotate(false, 0))
	c.SetViewportSize(800, 600)

	c.BeginDrag(0, 0)
	c.DragTo(60, 0)
	c.EndDrag()

	c.Update()
	first := c.Azimuth()
	assert.InDelta(t, math.Pi/10*0.05, first, 1e-6)

	for range 400 {
		c.Update()
	}
	assert.InDelta(t, math.Pi/10, c.Azimuth(), 1e-4)
}

func TestElevationIsClampedAwayFromPoles(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1), WithAutoRotate(false, 0))
	c.SetViewportSize(800, 100)

	c.BeginDrag(0, 0)
	c.DragTo(0, -1000)
	c.Update()

	assert.Less(t, c.Elevation(), float32(math.Pi/2))
	assert.InDelta(t, math.Pi/2-1e-3, c.Elevation(), 1e-5)
	assert.False(t, math.IsNaN(float64(c.Direction().Len())))
}

func TestNonFiniteInputIsIgnored(t *testing.T) {
	c := NewOrbitController(WithDistance(300), WithAutoRotate(false, 0))
	c.SetViewportSize(800, 600)
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	c.BeginDrag(0, 0)
	c.DragTo(nan, 10)
	c.DragTo(inf, inf)
	c.Dolly(inf)
	c.Pinch(nan)
	c.Pinch(0)
	c.Update()

	s := c.State()
	assert.InDelta(t, 300, s.Distance, 1e-4)
	assert.Zero(t, s.Azimuth)
	assert.Zero(t, s.Elevation)
}

func TestDragWithoutViewportIsIgnored(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1), WithAutoRotate(false, 0))

	c.BeginDrag(0, 0)
	c.DragTo(300, 300)
	c.Update()

	assert.Zero(t, c.Azimuth())
	assert.Zero(t, c.Elevation())
}

func TestDollyAndPinch(t *testing.T) {
	c := NewOrbitController(WithDistance(300), WithAutoRotate(false, 0))

	c.Dolly(1)
	assert.InDelta(t, 285, c.Distance(), 1e-3)
	c.Dolly(-1)
	assert.InDelta(t, 300, c.Distance(), 1e-3)

	c.Pinch(2)
	assert.InDelta(t, 150, c.Distance(), 1e-3)
	c.Pinch(0.1)
	assert.InDelta(t, 500, c.Distance(), 1e-3, "pinch out stops at the maximum distance")
}

func TestKeyboardOrbitSteps(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1), WithAutoRotate(false, 0), WithKeyOrbitStep(0.2))

	c.OrbitRight()
	c.OrbitUp()
	c.Update()
	assert.InDelta(t, 0.2, c.Azimuth(), 1e-6)
	assert.InDelta(t, 0.2, c.Elevation(), 1e-6)

	c.OrbitLeft()
	c.OrbitLeft()
	c.OrbitDown()
	c.Update()
	assert.InDelta(t, -0.2, c.Azimuth(), 1e-6)
	assert.InDelta(t, 0, c.Elevation(), 1e-6)
}

func TestToggleAutoRotate(t *testing.T) {
	c := NewOrbitController()

	assert.False(t, c.ToggleAutoRotate())
	c.Update()
	assert.Zero(t, c.Azimuth())

	assert.True(t, c.ToggleAutoRotate())
	assert.True(t, c.State().AutoRotate)
}

func TestAzimuthStaysWrapped(t *testing.T) {
	c := NewOrbitController(WithDamping(false, 1), WithAutoRotate(false, 0), WithKeyOrbitStep(1))

	for range 20 {
		c.OrbitRight()
		c.Update()
		require.GreaterOrEqual(t, c.Azimuth(), float32(-math.Pi))
		require.Less(t, c.Azimuth(), float32(math.Pi))
	}
}
