// Package viewer mounts the panorama viewer onto a surface: it owns the GPU resources, the input
// and resize listeners and the render loop for as long as the viewer is mounted.
package viewer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/controls"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/minimap"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrAlreadyMounted is returned by Mount while the viewer is mounted.
	ErrAlreadyMounted = errors.New("viewer already mounted")
	// ErrInvalidViewport is returned by Mount when the viewport has no area.
	ErrInvalidViewport = errors.New("viewer: viewport has no size")
)

// ViewportSource is the container the viewer renders into.
type ViewportSource interface {
	renderer.Surface

	// SetResizeCallback registers the resize listener. A nil callback removes it.
	SetResizeCallback(callback func(width, height int))
}

// InputSource delivers pointer, wheel and keyboard input. A nil callback removes a listener.
// Pointer positions are in surface pixels. GLFW reports no touch events, so OrbitController.Pinch
// is reachable only from a touch-capable front end driving the controller directly.
type InputSource interface {
	SetMouseDownCallback(callback func(x, y float32))
	SetMouseUpCallback(callback func(x, y float32))
	SetMouseMoveCallback(callback func(x, y float32))
	SetScrollCallback(callback func(delta float32))
	SetKeyDownCallback(callback func(keyCode uint32))
}

// cursorSource is implemented by inputs that can show a hand cursor over buttons.
type cursorSource interface {
	SetHandCursor(hand bool)
}

// RendererFactory creates the renderer for a surface.
type RendererFactory func(surface renderer.Surface, cfg *config.Config, logger common.Logger) (renderer.Renderer, error)

type viewer struct {
	mu *sync.Mutex

	cfg    *config.Config
	logger common.Logger

	viewport        ViewportSource
	input           InputSource
	scheduler       engine.Scheduler
	rendererFactory RendererFactory
	loader          loader.Loader

	controller camera.OrbitController
	camera     camera.Camera
	sphere     model.Model
	mainScene  scene.Scene
	minimap    minimap.Minimap
	panel      controls.Panel

	// set while mounted
	mounted    bool
	renderer   renderer.Renderer
	engine     engine.Engine
	resources  *ledger
	handCursor bool
}

// Viewer is a mountable panorama view. Between Mount and Unmount it renders the textured sphere,
// the minimap and the control buttons every frame and reacts to input and resizes.
type Viewer interface {
	// Mount acquires every graphics resource, attaches the listeners and starts the render loop.
	// When any step fails everything acquired so far is released before the error is returned.
	//
	// Returns:
	//   - error: ErrAlreadyMounted, ErrInvalidViewport, or the first setup failure
	Mount() error

	// Unmount stops the render loop, removes the listeners and releases every graphics resource
	// exactly once. Safe to call more than once and without a prior Mount.
	Unmount()

	// Mounted reports whether the viewer is mounted.
	Mounted() bool

	// Resize applies a new viewport size: the camera aspect and the main surface follow it, the
	// minimap keeps its fixed size. Sizes without area are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Commands returns the commands bound to the control buttons.
	Commands() controls.Commands

	// Controller returns the orbit controller.
	Controller() camera.OrbitController

	// Camera returns the main perspective camera.
	Camera() camera.Camera

	// Scene returns the main scene; its first model is the panorama sphere.
	Scene() scene.Scene

	// Minimap returns the minimap.
	Minimap() minimap.Minimap

	// Panel returns the control button panel.
	Panel() controls.Panel
}

var _ Viewer = &viewer{}

// NewViewer creates an unmounted viewer. The scene, cameras and controls are built here; nothing
// touches the GPU until Mount.
//
// Parameters:
//   - options: a variadic list of ViewerBuilderOption functions
//
// Returns:
//   - Viewer: the viewer
//   - error: an error if the configuration is invalid
func NewViewer(options ...ViewerBuilderOption) (Viewer, error) {
	v := &viewer{
		mu:              &sync.Mutex{},
		cfg:             config.Default(),
		logger:          common.NewNopLogger(),
		rendererFactory: newWGPURenderer,
	}
	for _, opt := range options {
		opt(v)
	}
	if err := v.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	fallback, err := common.ParseHexColor(v.cfg.Sphere.FallbackColor)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	if v.loader == nil {
		v.loader = loader.NewLoader(loader.BackendTypeFile,
			loader.WithWorkers(v.cfg.Loader.Workers),
			loader.WithMaxTextureSize(v.cfg.Loader.MaxTextureSize),
			loader.WithLogger(v.logger),
		)
	}

	v.controller = camera.NewOrbitController(controllerOptions(v.cfg.Controls)...)
	v.camera = camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(v.cfg.Camera.FOV)),
		camera.WithClipPlanes(v.cfg.Camera.Near, v.cfg.Camera.Far),
		camera.WithController(v.controller),
	)
	v.sphere = scene.NewPanorama(
		scene.WithRadius(v.cfg.Sphere.Radius),
		scene.WithSegments(v.cfg.Sphere.WidthSegments, v.cfg.Sphere.HeightSegments),
		scene.WithFallbackColor(fallback),
	)
	v.mainScene = scene.NewScene("Main", scene.WithModels(v.sphere))
	v.minimap = minimap.NewMinimap(
		minimap.WithSize(v.cfg.Minimap.Size),
		minimap.WithMargin(v.cfg.Minimap.Margin),
	)
	v.panel = controls.NewPanel(v.controller, controls.WithLogger(v.logger))
	return v, nil
}

func controllerOptions(c config.ControlsConfig) []camera.OrbitControllerBuilderOption {
	return []camera.OrbitControllerBuilderOption{
		camera.WithDistanceBounds(c.MinDistance, c.MaxDistance),
		camera.WithDamping(c.Damping, c.DampingFactor),
		camera.WithRotateSpeed(c.RotateSpeed),
		camera.WithZoomSpeed(c.ZoomSpeed),
		camera.WithKeyOrbitStep(c.KeyOrbitStep),
		camera.WithAutoRotate(c.AutoRotate, c.AutoRotateSpeed),
		camera.WithCommandZoom(c.CommandZoomSpeed, c.ZoomFloor, c.ZoomCeiling),
	}
}

// newWGPURenderer is the default RendererFactory.
func newWGPURenderer(surface renderer.Surface, cfg *config.Config, logger common.Logger) (renderer.Renderer, error) {
	mode := renderer.PresentModeUncapped
	if cfg.Renderer.VSync {
		mode = renderer.PresentModeVSync
	}
	return renderer.NewRenderer(renderer.BackendTypeWGPU, surface,
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
		renderer.WithLogger(logger),
	)
}

func (v *viewer) Mount() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mounted {
		return ErrAlreadyMounted
	}
	if v.viewport == nil {
		return fmt.Errorf("viewer: no viewport configured")
	}
	if v.scheduler == nil {
		return fmt.Errorf("viewer: no frame scheduler configured")
	}
	width, height := v.viewport.Width(), v.viewport.Height()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}

	v.resources = newLedger()
	if err := v.mount(width, height); err != nil {
		released := v.resources.releaseAll()
		v.renderer = nil
		v.engine = nil
		v.logger.Warnf("mount failed, released %d resources: %v", len(released), err)
		return err
	}
	v.mounted = true
	v.logger.Infof("viewer mounted at %dx%d with %d resources", width, height, v.resources.len())
	return nil
}

// mount performs the acquisitions of Mount, recording each in the ledger as soon as it succeeds.
// Must be called with v.mu held.
func (v *viewer) mount(width, height int) error {
	r, err := v.rendererFactory(v.viewport, v.cfg, v.logger)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer = r
	v.track("renderer", r.Release)

	pipelines, err := pipeline.NewBasicPipelines()
	if err != nil {
		return fmt.Errorf("failed to build pipelines: %w", err)
	}
	if err := r.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("failed to register pipelines: %w", err)
	}

	v.camera.SetAspect(float32(width) / float32(height))
	v.controller.SetViewportSize(width, height)
	v.camera.Update()

	// Each scene releases whatever it acquired when its own InitGPU fails, so it is recorded in
	// the ledger only on success.
	if err := v.mainScene.InitGPU(r); err != nil {
		return fmt.Errorf("failed to create panorama: %w", err)
	}
	v.track("main scene", func() { v.mainScene.Release(r) })

	if err := v.minimap.InitGPU(r); err != nil {
		return fmt.Errorf("failed to create minimap: %w", err)
	}
	v.track("minimap", func() { v.minimap.Release(r) })

	if err := v.panel.InitGPU(r); err != nil {
		return fmt.Errorf("failed to create controls: %w", err)
	}
	v.track("controls", func() { v.panel.Release(r) })

	v.viewport.SetResizeCallback(v.Resize)
	v.track("resize listener", func() { v.viewport.SetResizeCallback(nil) })

	if v.input != nil {
		v.attachInput()
		v.track("input listeners", v.detachInput)
	}

	if v.cfg.Image != "" {
		id := v.loader.LoadAsync(v.cfg.Image)
		v.logger.Debugf("loading panorama %s (request %d)", v.cfg.Image, id)
	}

	e := engine.NewEngine(
		engine.WithScheduler(v.scheduler),
		engine.WithRenderer(r),
		engine.WithLogger(v.logger),
		engine.WithProfiling(v.cfg.Profile),
		engine.WithSubsystem("controller", engine.SubsystemFunc(v.updateCamera)),
		engine.WithSubsystem("minimap", engine.SubsystemFunc(v.syncMinimap)),
		engine.WithSubsystem("texture", engine.SubsystemFunc(v.uploadTextures)),
		engine.WithLayer("panorama", engine.LayerFunc(v.drawMain)),
		engine.WithLayer("minimap", engine.LayerFunc(v.minimap.Draw)),
		engine.WithLayer("controls", engine.LayerFunc(v.panel.Draw)),
	)
	if err := e.Start(); err != nil {
		return fmt.Errorf("failed to start render loop: %w", err)
	}
	v.engine = e
	v.track("render loop", e.Stop)
	return nil
}

// track records an acquisition in the ledger and logs its entry id.
func (v *viewer) track(label string, release func()) {
	id := v.resources.add(label, release)
	v.logger.Debugf("acquired %s (%s)", label, id)
}

func (v *viewer) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted {
		return
	}
	v.mounted = false
	released := v.resources.releaseAll()
	v.renderer = nil
	v.engine = nil
	v.handCursor = false
	// Decodes still running are discarded; a later Mount requests the image again.
	v.loader.Poll()
	v.logger.Infof("viewer unmounted, released %v", released)
}

func (v *viewer) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

func (v *viewer) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.mounted || width <= 0 || height <= 0 {
		return
	}
	v.camera.SetAspect(float32(width) / float32(height))
	v.controller.SetViewportSize(width, height)
	if err := v.renderer.Resize(width, height); err != nil {
		v.logger.Warnf("failed to resize surface to %dx%d: %v", width, height, err)
	}
}

func (v *viewer) Commands() controls.Commands {
	return v.controller
}

func (v *viewer) Controller() camera.OrbitController {
	return v.controller
}

func (v *viewer) Camera() camera.Camera {
	return v.camera
}

func (v *viewer) Scene() scene.Scene {
	return v.mainScene
}

func (v *viewer) Minimap() minimap.Minimap {
	return v.minimap
}

func (v *viewer) Panel() controls.Panel {
	return v.panel
}

func (v *viewer) updateCamera(float32) error {
	v.controller.Update()
	v.camera.Update()
	return nil
}

func (v *viewer) syncMinimap(float32) error {
	v.minimap.Sync(v.camera.Direction())
	return nil
}

// uploadTextures applies finished panorama loads. A failed load leaves the fallback color showing.
func (v *viewer) uploadTextures(float32) error {
	var errs []error
	for _, res := range v.loader.Poll() {
		if res.Err != nil {
			v.logger.Warnf("failed to load panorama %s: %v", res.Path, res.Err)
			continue
		}
		if err := scene.ApplyPanoramaTexture(v.mainScene, v.renderer, v.sphere, res.Texture); err != nil {
			errs = append(errs, fmt.Errorf("upload %s: %w", res.Path, err))
			continue
		}
		v.logger.Infof("panorama %s loaded (%dx%d)", res.Path, res.Texture.Width, res.Texture.Height)
	}
	return errors.Join(errs...)
}

func (v *viewer) drawMain(r renderer.Renderer) error {
	target := renderer.Target{Label: "Panorama", Clear: true, ClearColor: common.ColorBlack}
	if err := r.BeginPass(target); err != nil {
		return err
	}
	defer r.EndPass()
	return v.mainScene.Draw(r, v.camera)
}
