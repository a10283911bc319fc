package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ViewerState is a point-in-time snapshot of the orbit controller's orientation and zoom.
type ViewerState struct {
	// Azimuth is the horizontal heading in radians, wrapped into [-π, π).
	Azimuth float32
	// Elevation is the vertical angle in radians above the horizon.
	Elevation float32
	// Direction is the unit look direction from the camera toward the orbit target.
	Direction mgl32.Vec3
	// Distance is the current distance between the camera and the orbit target.
	Distance float32
	// MinDistance and MaxDistance are the current zoom bounds.
	MinDistance, MaxDistance float32
	// AutoRotate reports whether idle rotation is enabled.
	AutoRotate bool
	// AutoRotateSpeed is the idle rotation speed, where 1.0 is one revolution per 3600 ticks.
	AutoRotateSpeed float32
	// Dragging reports whether a pointer drag is in progress.
	Dragging bool
}

// OrbitController turns user gestures into an orbit around a fixed target.
//
// Drag, keyboard and wheel input are accumulated as deltas and applied by Update, which must be
// called exactly once per frame. The controller has no knowledge of rendering; a Camera reads its
// Position and Target when building matrices. Panning is not supported: the target never moves.
type OrbitController interface {
	// Update advances the controller by one tick. It applies idle rotation, the damped share of
	// any pending rotation deltas, and re-derives the camera position.
	Update()

	// Position returns the current camera position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// Target returns the fixed point the camera orbits and looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the orbit target
	Target() mgl32.Vec3

	// Direction returns the unit vector from the camera toward the target.
	//
	// Returns:
	//   - mgl32.Vec3: the normalised look direction
	Direction() mgl32.Vec3

	// Azimuth returns the horizontal heading in radians.
	Azimuth() float32

	// Elevation returns the vertical angle in radians.
	Elevation() float32

	// Distance returns the current distance between camera and target.
	Distance() float32

	// MinDistance returns the current lower zoom bound.
	MinDistance() float32

	// MaxDistance returns the current upper zoom bound.
	MaxDistance() float32

	// SetViewportSize records the pixel size of the interactive surface. Drag deltas are scaled by
	// the viewport height, so dragging is ignored until a positive height is known.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	SetViewportSize(width, height int)

	// BeginDrag starts a rotation drag at the given pointer position.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	BeginDrag(x, y float32)

	// DragTo moves an active drag to the given pointer position, queuing a rotation delta
	// proportional to the pointer movement. Non-finite positions are ignored.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels
	DragTo(x, y float32)

	// EndDrag finishes the active drag. Pending deltas keep decaying through Update.
	EndDrag()

	// Dragging reports whether a drag is in progress.
	Dragging() bool

	// Dolly zooms in response to a wheel event. Positive deltas move the camera toward the target.
	//
	// Parameters:
	//   - delta: the wheel delta in notches
	Dolly(delta float32)

	// Pinch zooms in response to a two-finger gesture. A ratio above 1 (fingers spreading)
	// moves the camera toward the target.
	//
	// Parameters:
	//   - ratio: the current finger distance divided by the previous one
	Pinch(ratio float32)

	// OrbitLeft queues a leftward rotation of one keyboard step.
	OrbitLeft()

	// OrbitRight queues a rightward rotation of one keyboard step.
	OrbitRight()

	// OrbitUp queues an upward rotation of one keyboard step.
	OrbitUp()

	// OrbitDown queues a downward rotation of one keyboard step.
	OrbitDown()

	// ZoomIn moves the camera toward the target by the command zoom step and lowers the minimum
	// distance to the new distance, never below the zoom floor.
	ZoomIn()

	// ZoomOut moves the camera away from the target by the command zoom step and sets the maximum
	// distance to the new distance, never above the zoom ceiling.
	ZoomOut()

	// Reset restores the initial orientation, distance and zoom bounds, and clears inertia and drag
	// state. The auto-rotate setting is left as is.
	Reset()

	// AutoRotate reports whether idle rotation is enabled.
	AutoRotate() bool

	// SetAutoRotate enables or disables idle rotation.
	//
	// Parameters:
	//   - enabled: the new setting
	SetAutoRotate(enabled bool)

	// ToggleAutoRotate flips idle rotation.
	//
	// Returns:
	//   - bool: the new setting
	ToggleAutoRotate() bool

	// State returns a snapshot of the controller.
	//
	// Returns:
	//   - ViewerState: the current orientation and zoom
	State() ViewerState
}
