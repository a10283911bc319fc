package camera

import "github.com/go-gl/mathgl/mgl32"

// OrbitControllerBuilderOption is a functional option used to configure an OrbitController during construction.
type OrbitControllerBuilderOption func(*orbitController)

// WithTarget sets the fixed point the camera orbits around.
//
// Parameters:
//   - target: the orbit target in world space
//
// Returns:
//   - OrbitControllerBuilderOption: a function that sets the orbit target
func WithTarget(target mgl32.Vec3) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.target = target
	}
}

// WithDistance sets the starting distance between camera and target. The value is clamped into the
// distance bounds after all options are applied, and Reset restores it through the same clamp.
//
// Parameters:
//   - distance: the starting distance
//
// Returns:
//   - OrbitControllerBuilderOption: a function that sets the starting distance
func WithDistance(distance float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.distance = distance
	}
}

// WithAzimuth sets the starting horizontal heading in radians.
func WithAzimuth(azimuth float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.azimuth = azimuth
	}
}

// WithElevation sets the starting vertical angle in radians.
func WithElevation(elevation float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.elevation = elevation
	}
}

// WithDistanceBounds sets the initial zoom bounds. Reset restores these bounds.
//
// Parameters:
//   - minDistance: the lower bound
//   - maxDistance: the upper bound
//
// Returns:
//   - OrbitControllerBuilderOption: a function that sets the zoom bounds
func WithDistanceBounds(minDistance, maxDistance float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.minDistance = minDistance
		c.maxDistance = maxDistance
	}
}

// WithDamping enables or disables inertia and sets the fraction of pending rotation applied per tick.
//
// Parameters:
//   - enabled: whether pending rotation decays over several ticks
//   - factor: the per-tick fraction in (0, 1]
//
// Returns:
//   - OrbitControllerBuilderOption: a function that sets damping
func WithDamping(enabled bool, factor float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.dampingEnabled = enabled
		c.dampingFactor = factor
	}
}

// WithRotateSpeed sets the drag sensitivity. Negative values make the image follow the pointer.
func WithRotateSpeed(speed float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.rotateSpeed = speed
	}
}

// WithZoomSpeed sets the wheel zoom sensitivity.
func WithZoomSpeed(speed float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.zoomSpeed = speed
	}
}

// WithKeyOrbitStep sets the rotation in radians queued by one keyboard orbit command.
func WithKeyOrbitStep(step float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.keyOrbitStep = step
	}
}

// WithAutoRotate configures idle rotation.
//
// Parameters:
//   - enabled: whether idle rotation starts enabled
//   - speed: the idle rotation speed, where 1.0 is one revolution per 3600 ticks
//
// Returns:
//   - OrbitControllerBuilderOption: a function that configures idle rotation
func WithAutoRotate(enabled bool, speed float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.autoRotate = enabled
		c.autoRotateSpeed = speed
	}
}

// WithCommandZoom configures the ZoomIn and ZoomOut commands.
//
// Parameters:
//   - speed: the command zoom speed; each command scales the distance by 1 ± speed/10
//   - floor: the smallest minimum distance ZoomIn may set
//   - ceiling: the largest maximum distance ZoomOut may set
//
// Returns:
//   - OrbitControllerBuilderOption: a function that configures zoom commands
func WithCommandZoom(speed, floor, ceiling float32) OrbitControllerBuilderOption {
	return func(c *orbitController) {
		c.commandZoomSpeed = speed
		c.zoomFloor = floor
		c.zoomCeiling = ceiling
	}
}
