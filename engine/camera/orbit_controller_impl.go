package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// elevationEpsilon keeps the camera off the poles where the look-at basis degenerates.
	elevationEpsilon = 1e-3
	// minimumDistance is the smallest distance bound the controller accepts.
	minimumDistance = 1e-3
	// ticksPerRevolution is the number of ticks an auto-rotate speed of 1.0 needs for a full turn.
	ticksPerRevolution = 60 * 60
)

// orbitSnapshot is the state restored by Reset.
type orbitSnapshot struct {
	azimuth     float32
	elevation   float32
	distance    float32
	minDistance float32
	maxDistance float32
}

type orbitController struct {
	mu *sync.Mutex

	target   mgl32.Vec3
	position mgl32.Vec3

	azimuth   float32
	elevation float32
	distance  float32

	minDistance  float32
	maxDistance  float32
	minElevation float32
	maxElevation float32

	// pending rotation applied by Update
	azimuthDelta   float32
	elevationDelta float32

	dampingEnabled   bool
	dampingFactor    float32
	rotateSpeed      float32
	zoomSpeed        float32
	keyOrbitStep     float32
	autoRotate       bool
	autoRotateSpeed  float32
	commandZoomSpeed float32
	zoomFloor        float32
	zoomCeiling      float32

	viewportWidth  int
	viewportHeight int

	dragging           bool
	dragX, dragY       float32
	draggedSinceUpdate bool

	initial orbitSnapshot
}

var _ OrbitController = &orbitController{}

// NewOrbitController creates an OrbitController configured with the provided options.
//
// Defaults place the camera 0.1 units in front of the origin looking back at it, with zoom bounds
// [100, 500], damping 0.05, a rotate speed of -0.5 so the image follows the pointer, and idle rotation
// enabled at speed 0.1. The starting distance is clamped into the bounds immediately.
//
// Parameters:
//   - options: a variadic list of OrbitControllerBuilderOption functions
//
// Returns:
//   - OrbitController: the configured controller
func NewOrbitController(options ...OrbitControllerBuilderOption) OrbitController {
	c := &orbitController{
		mu:               &sync.Mutex{},
		target:           mgl32.Vec3{0, 0, 0},
		distance:         0.1,
		minDistance:      100,
		maxDistance:      500,
		minElevation:     -math.Pi/2 + elevationEpsilon,
		maxElevation:     math.Pi/2 - elevationEpsilon,
		dampingEnabled:   true,
		dampingFactor:    0.05,
		rotateSpeed:      -0.5,
		zoomSpeed:        1,
		keyOrbitStep:     0.1,
		autoRotate:       true,
		autoRotateSpeed:  0.1,
		commandZoomSpeed: 2,
		zoomFloor:        1,
		zoomCeiling:      1000,
	}
	for _, opt := range options {
		opt(c)
	}

	c.minDistance = max(c.minDistance, minimumDistance)
	c.maxDistance = max(c.maxDistance, c.minDistance)
	c.zoomFloor = max(c.zoomFloor, minimumDistance)
	c.zoomCeiling = max(c.zoomCeiling, c.zoomFloor)
	if c.dampingFactor <= 0 || c.dampingFactor > 1 {
		c.dampingFactor = 0.05
	}

	c.initial = orbitSnapshot{
		azimuth:     c.azimuth,
		elevation:   c.elevation,
		distance:    c.distance,
		minDistance: c.minDistance,
		maxDistance: c.maxDistance,
	}
	c.sanitize()
	c.updatePosition()
	return c
}

func (c *orbitController) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.autoRotate && !c.dragging && !c.draggedSinceUpdate {
		c.azimuth += c.autoRotateStep()
	}
	c.draggedSinceUpdate = false

	if c.dampingEnabled {
		c.azimuth += c.azimuthDelta * c.dampingFactor
		c.elevation += c.elevationDelta * c.dampingFactor
		c.azimuthDelta *= 1 - c.dampingFactor
		c.elevationDelta *= 1 - c.dampingFactor
	} else {
		c.azimuth += c.azimuthDelta
		c.elevation += c.elevationDelta
		c.azimuthDelta = 0
		c.elevationDelta = 0
	}

	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *orbitController) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *orbitController) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction()
}

func (c *orbitController) Azimuth() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.azimuth
}

func (c *orbitController) Elevation() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elevation
}

func (c *orbitController) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *orbitController) MinDistance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minDistance
}

func (c *orbitController) MaxDistance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxDistance
}

func (c *orbitController) SetViewportSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth = width
	c.viewportHeight = height
}

func (c *orbitController) BeginDrag(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !common.IsFinite(x, y) {
		return
	}
	c.dragging = true
	c.dragX = x
	c.dragY = y
}

func (c *orbitController) DragTo(x, y float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dragging || !common.IsFinite(x, y) {
		return
	}
	dx := x - c.dragX
	dy := y - c.dragY
	c.dragX = x
	c.dragY = y

	if c.viewportHeight <= 0 {
		return
	}
	h := float32(c.viewportHeight)
	c.azimuthDelta -= 2 * math.Pi * dx / h * c.rotateSpeed
	c.elevationDelta += 2 * math.Pi * dy / h * c.rotateSpeed
	c.draggedSinceUpdate = true
}

func (c *orbitController) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dragging = false
}

func (c *orbitController) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

func (c *orbitController) Dolly(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if delta == 0 || !common.IsFinite(delta) {
		return
	}
	scale := float32(math.Pow(0.95, float64(c.zoomSpeed*float32(math.Abs(float64(delta))))))
	if delta > 0 {
		c.distance *= scale
	} else {
		c.distance /= scale
	}
	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) Pinch(ratio float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ratio <= 0 || !common.IsFinite(ratio) {
		return
	}
	c.distance /= ratio
	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) OrbitLeft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuthDelta -= c.keyOrbitStep
}

func (c *orbitController) OrbitRight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.azimuthDelta += c.keyOrbitStep
}

func (c *orbitController) OrbitUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elevationDelta += c.keyOrbitStep
}

func (c *orbitController) OrbitDown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elevationDelta -= c.keyOrbitStep
}

func (c *orbitController) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.distance * (1 - c.commandZoomSpeed/10)
	c.minDistance = max(c.zoomFloor, next)
	c.maxDistance = max(c.maxDistance, c.minDistance)
	c.distance = next
	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.distance * (1 + c.commandZoomSpeed/10)
	c.maxDistance = min(c.zoomCeiling, next)
	c.minDistance = min(c.minDistance, c.maxDistance)
	c.distance = next
	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.azimuth = c.initial.azimuth
	c.elevation = c.initial.elevation
	c.distance = c.initial.distance
	c.minDistance = c.initial.minDistance
	c.maxDistance = c.initial.maxDistance
	c.azimuthDelta = 0
	c.elevationDelta = 0
	c.dragging = false
	c.draggedSinceUpdate = false
	c.sanitize()
	c.updatePosition()
}

func (c *orbitController) AutoRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoRotate
}

func (c *orbitController) SetAutoRotate(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRotate = enabled
}

func (c *orbitController) ToggleAutoRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRotate = !c.autoRotate
	return c.autoRotate
}

func (c *orbitController) State() ViewerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewerState{
		Azimuth:         c.azimuth,
		Elevation:       c.elevation,
		Direction:       c.direction(),
		Distance:        c.distance,
		MinDistance:     c.minDistance,
		MaxDistance:     c.maxDistance,
		AutoRotate:      c.autoRotate,
		AutoRotateSpeed: c.autoRotateSpeed,
		Dragging:        c.dragging,
	}
}

func (c *orbitController) autoRotateStep() float32 {
	return 2 * math.Pi / ticksPerRevolution * c.autoRotateSpeed
}

// sanitize clamps the distance, clamps the elevation and wraps the azimuth. Must be called with c.mu held.
func (c *orbitController) sanitize() {
	if !common.IsFinite(c.azimuth, c.azimuthDelta) {
		c.azimuth = c.initial.azimuth
		c.azimuthDelta = 0
	}
	if !common.IsFinite(c.elevation, c.elevationDelta) {
		c.elevation = c.initial.elevation
		c.elevationDelta = 0
	}
	if !common.IsFinite(c.distance) {
		c.distance = c.initial.distance
	}

	c.azimuth = common.WrapAngle(c.azimuth)
	c.elevation = common.Clamp(c.elevation, c.minElevation, c.maxElevation)
	c.distance = common.Clamp(c.distance, c.minDistance, c.maxDistance)
}

// updatePosition derives the camera position from the spherical coordinates. Must be called with c.mu held.
func (c *orbitController) updatePosition() {
	sinA, cosA := math.Sincos(float64(c.azimuth))
	sinE, cosE := math.Sincos(float64(c.elevation))
	offset := mgl32.Vec3{
		float32(cosE * sinA),
		float32(sinE),
		float32(cosE * cosA),
	}
	c.position = c.target.Add(offset.Mul(c.distance))
}

// direction must be called with c.mu held.
func (c *orbitController) direction() mgl32.Vec3 {
	d := c.target.Sub(c.position)
	if l := d.Len(); l > 0 && common.IsFinite(l) {
		return d.Mul(1 / l)
	}
	sinA, cosA := math.Sincos(float64(c.azimuth))
	sinE, cosE := math.Sincos(float64(c.elevation))
	return mgl32.Vec3{float32(-cosE * sinA), float32(-sinE), float32(-cosE * cosA)}
}
