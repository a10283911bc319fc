package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Projector is anything that can supply a combined view-projection matrix for drawing a scene.
type Projector interface {
	// ViewProjectionMatrix returns the combined view-projection matrix (column-major, WebGPU depth range).
	ViewProjectionMatrix() mgl32.Mat4
}

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller OrbitController
}

// Camera defines the perspective camera used for the main panorama view.
// The camera holds perspective settings and computes view/projection matrices
// from an attached OrbitController each frame via Update().
type Camera interface {
	Projector

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current view matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl32.Mat4

	// Direction returns the unit look direction of the camera. Without a controller the camera
	// looks down -Z.
	//
	// Returns:
	//   - mgl32.Vec3: the normalised look direction
	Direction() mgl32.Vec3

	// Controller returns the attached OrbitController, or nil.
	Controller() OrbitController

	// Update reads position and target from the controller and recomputes matrices.
	// Should be called once per frame before drawing.
	Update()

	// SetAspect sets the aspect ratio and recomputes the projection. Non-positive or non-finite
	// ratios are ignored.
	//
	// Parameters:
	//   - aspect: width divided by height
	SetAspect(aspect float32)

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera. Defaults match the panorama view: a 75° vertical field of
// view, a 0.1 near plane, a 1000 far plane and a square aspect until SetAspect is called.
//
// Parameters:
//   - options: a variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the configured camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    mgl32.DegToRad(75),
		aspect: 1,
		near:   0.1,
		far:    1000,
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	if c.controller == nil {
		return mgl32.Vec3{0, 0, -1}
	}
	return c.controller.Direction()
}

func (c *cameraImpl) Controller() OrbitController {
	return c.controller
}

func (c *cameraImpl) Update() {
	if c.controller == nil {
		return
	}
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || !common.IsFinite(aspect) {
		return
	}
	c.mu.Lock()
	c.aspect = aspect
	c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	if fov <= 0 || !common.IsFinite(fov) {
		return
	}
	c.mu.Lock()
	c.fov = fov
	c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) updateMatrices() {
	eye := mgl32.Vec3{0, 0, 0}
	center := mgl32.Vec3{0, 0, -1}
	if c.controller != nil {
		eye = c.controller.Position()
		center = c.controller.Target()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.viewMatrix = mgl32.LookAtV(eye, center, c.up)
	c.projectionMatrix = common.ClipSpaceCorrection.Mul4(mgl32.Perspective(c.fov, c.aspect, c.near, c.far))
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
