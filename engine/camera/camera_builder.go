package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option used to configure a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithUp sets the camera's up vector.
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithFov sets the vertical field of view in radians.
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clipping planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithController attaches the OrbitController the camera reads its position and target from.
//
// Parameters:
//   - controller: the controller to attach
//
// Returns:
//   - CameraBuilderOption: a function that attaches the controller
func WithController(controller OrbitController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = controller
	}
}
