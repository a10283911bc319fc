package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/go-gl/mathgl/mgl32"
)

type orthographicCamera struct {
	mu *sync.Mutex

	left, right, top, bottom float32
	near, far                float32
	position                 mgl32.Vec3

	viewProjectionMatrix mgl32.Mat4
}

// OrthographicCamera is a fixed camera looking down -Z with a parallel projection.
// It is used for the minimap and for pixel-space overlays.
type OrthographicCamera interface {
	Projector

	// Bounds returns the left, right, top and bottom planes of the view volume.
	Bounds() (left, right, top, bottom float32)

	// SetBounds replaces the view volume planes and recomputes the projection.
	// Setting top below bottom produces a y-down view, which is how pixel-space overlays are drawn.
	//
	// Parameters:
	//   - left, right, top, bottom: the view volume planes
	SetBounds(left, right, top, bottom float32)
}

var _ OrthographicCamera = &orthographicCamera{}

// OrthographicCameraBuilderOption is a functional option used to configure an OrthographicCamera.
type OrthographicCameraBuilderOption func(*orthographicCamera)

// WithOrthographicBounds sets the view volume planes.
func WithOrthographicBounds(left, right, top, bottom float32) OrthographicCameraBuilderOption {
	return func(c *orthographicCamera) {
		c.left, c.right, c.top, c.bottom = left, right, top, bottom
	}
}

// WithOrthographicClipPlanes sets the near and far plane distances.
func WithOrthographicClipPlanes(near, far float32) OrthographicCameraBuilderOption {
	return func(c *orthographicCamera) {
		c.near, c.far = near, far
	}
}

// WithOrthographicPosition sets the camera position. The camera always looks down -Z.
func WithOrthographicPosition(position mgl32.Vec3) OrthographicCameraBuilderOption {
	return func(c *orthographicCamera) {
		c.position = position
	}
}

// NewOrthographicCamera creates an orthographic camera. Defaults frame the unit square
// (-1..1 on both axes) from z = 1 with near 0.1 and far 10.
//
// Parameters:
//   - options: a variadic list of OrthographicCameraBuilderOption functions
//
// Returns:
//   - OrthographicCamera: the configured camera
func NewOrthographicCamera(options ...OrthographicCameraBuilderOption) OrthographicCamera {
	c := &orthographicCamera{
		mu:       &sync.Mutex{},
		left:     -1,
		right:    1,
		top:      1,
		bottom:   -1,
		near:     0.1,
		far:      10,
		position: mgl32.Vec3{0, 0, 1},
	}
	for _, opt := range options {
		opt(c)
	}
	c.updateMatrices()
	return c
}

func (c *orthographicCamera) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *orthographicCamera) Bounds() (left, right, top, bottom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left, c.right, c.top, c.bottom
}

func (c *orthographicCamera) SetBounds(left, right, top, bottom float32) {
	c.mu.Lock()
	c.left, c.right, c.top, c.bottom = left, right, top, bottom
	c.mu.Unlock()
	c.updateMatrices()
}

func (c *orthographicCamera) updateMatrices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := mgl32.LookAtV(c.position, c.position.Sub(mgl32.Vec3{0, 0, 1}), mgl32.Vec3{0, 1, 0})
	projection := common.ClipSpaceCorrection.Mul4(mgl32.Ortho(c.left, c.right, c.bottom, c.top, c.near, c.far))
	c.viewProjectionMatrix = projection.Mul4(view)
}
