// Package minimap draws the radar-style overlay that shows which way the main camera faces.
package minimap

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSize is the edge length of the minimap in pixels.
	DefaultSize = 150
	// DefaultMargin is the distance of the minimap from the top and right surface edges in pixels.
	DefaultMargin = 20

	// degenerateHeading is the smallest horizontal look component that still defines a heading.
	degenerateHeading = 1e-6
)

// IndicatorAngle returns the Z rotation of the minimap indicator for a camera look direction:
// the negated heading of the direction in the XZ plane, measured from +Z towards +X.
//
// Parameters:
//   - dir: the camera look direction
//
// Returns:
//   - float32: the indicator rotation in radians
func IndicatorAngle(dir mgl32.Vec3) float32 {
	return float32(-math.Atan2(float64(dir.X()), float64(dir.Z())))
}

type minimap struct {
	mu *sync.Mutex

	size   int
	margin int
	angle  float32

	scene     scene.Scene
	camera    camera.OrthographicCamera
	indicator model.Model
}

// Minimap is a small orthographic view in the top-right corner of the surface. It has its own
// scene and camera, and its indicator is rotated every frame from the main camera's heading.
// It never handles input.
type Minimap interface {
	// Sync recomputes the indicator rotation from the main camera's look direction. When the
	// direction has no horizontal component (looking straight up or down) or is not finite the
	// previous rotation is kept.
	//
	// Parameters:
	//   - dir: the main camera look direction
	Sync(dir mgl32.Vec3)

	// Angle returns the current indicator rotation in radians.
	Angle() float32

	// Size returns the edge length of the minimap in pixels.
	Size() int

	// Viewport returns the minimap region for a surface size. The size is fixed and does not
	// follow the surface.
	//
	// Parameters:
	//   - surfaceWidth: the surface width in pixels
	//   - surfaceHeight: the surface height in pixels
	//
	// Returns:
	//   - common.Rect: the minimap region
	Viewport(surfaceWidth, surfaceHeight int) common.Rect

	// Scene returns the minimap scene.
	Scene() scene.Scene

	// Camera returns the minimap's orthographic camera.
	Camera() camera.OrthographicCamera

	// Indicator returns the direction indicator model.
	Indicator() model.Model

	// InitGPU creates the GPU resources of the minimap scene.
	//
	// Parameters:
	//   - r: the renderer to allocate on
	//
	// Returns:
	//   - error: an error if any resource could not be created
	InitGPU(r renderer.Renderer) error

	// Draw renders the minimap in its own pass over the current frame.
	//
	// Parameters:
	//   - r: the renderer with an open frame
	//
	// Returns:
	//   - error: an error if the pass could not be opened or a draw failed
	Draw(r renderer.Renderer) error

	// Release frees the minimap's GPU resources. Safe to call more than once.
	//
	// Parameters:
	//   - r: the renderer the resources were allocated on
	Release(r renderer.Renderer)
}

var _ Minimap = &minimap{}

// NewMinimap builds the minimap scene: a dark translucent backdrop, a grey base disk and the red
// direction indicator, viewed by an orthographic camera framing -1..1.
//
// Parameters:
//   - options: a variadic list of MinimapBuilderOption functions
//
// Returns:
//   - Minimap: the configured minimap
func NewMinimap(options ...MinimapBuilderOption) Minimap {
	m := &minimap{
		mu:     &sync.Mutex{},
		size:   DefaultSize,
		margin: DefaultMargin,
		camera: camera.NewOrthographicCamera(
			camera.WithOrthographicBounds(-1, 1, 1, -1),
			camera.WithOrthographicClipPlanes(0.1, 10),
			camera.WithOrthographicPosition(mgl32.Vec3{0, 0, 1}),
		),
	}
	for _, opt := range options {
		opt(m)
	}

	// The backdrop stands in for the round, darkened container the minimap sits in.
	backdrop := model.NewModel(model.NewCircleMesh(1, 48),
		material.NewMaterial(
			material.WithName("minimap backdrop"),
			material.WithColor(common.ColorBlack),
			material.WithTransparency(0.44),
		),
		model.WithLabel("Backdrop"),
	)
	base := model.NewModel(model.NewCircleMesh(0.9, 32),
		material.NewMaterial(
			material.WithName("minimap base"),
			material.WithColor(common.ColorFromHex(0x666666, 1)),
			material.WithTransparency(0.6),
		),
		model.WithLabel("Base"),
	)
	m.indicator = model.NewModel(model.NewTriangleMesh(),
		material.NewMaterial(
			material.WithName("minimap indicator"),
			material.WithColor(common.ColorFromHex(0xff0000, 1)),
			material.WithSide(material.SideDouble),
		),
		model.WithLabel("Indicator"),
	)
	m.scene = scene.NewScene("Minimap", scene.WithModels(backdrop, base, m.indicator))
	return m
}

func (m *minimap) Sync(dir mgl32.Vec3) {
	if !common.IsFinite(dir.X(), dir.Y(), dir.Z()) {
		return
	}
	if math.Hypot(float64(dir.X()), float64(dir.Z())) < degenerateHeading {
		return
	}
	angle := IndicatorAngle(dir)

	m.mu.Lock()
	m.angle = angle
	m.mu.Unlock()
	m.indicator.SetRotationZ(angle)
}

func (m *minimap) Angle() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.angle
}

func (m *minimap) Size() int {
	return m.size
}

func (m *minimap) Viewport(surfaceWidth, surfaceHeight int) common.Rect {
	return common.Rect{
		X:      surfaceWidth - m.margin - m.size,
		Y:      m.margin,
		Width:  m.size,
		Height: m.size,
	}
}

func (m *minimap) Scene() scene.Scene {
	return m.scene
}

func (m *minimap) Camera() camera.OrthographicCamera {
	return m.camera
}

func (m *minimap) Indicator() model.Model {
	return m.indicator
}

func (m *minimap) InitGPU(r renderer.Renderer) error {
	if err := m.scene.InitGPU(r); err != nil {
		return fmt.Errorf("minimap: %w", err)
	}
	return nil
}

func (m *minimap) Draw(r renderer.Renderer) error {
	if err := r.BeginPass(renderer.Target{Label: "Minimap", Viewport: m.Viewport}); err != nil {
		return fmt.Errorf("minimap: %w", err)
	}
	defer r.EndPass()
	return m.scene.Draw(r, m.camera)
}

func (m *minimap) Release(r renderer.Renderer) {
	m.scene.Release(r)
}
