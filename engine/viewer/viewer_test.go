package viewer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"regexp"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/minimap"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-pano/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeViewport struct {
	width, height int
	onResize      func(width, height int)
}

func (f *fakeViewport) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f *fakeViewport) Width() int                                { return f.width }
func (f *fakeViewport) Height() int                               { return f.height }
func (f *fakeViewport) SetResizeCallback(callback func(width, height int)) {
	f.onResize = callback
}

type fakeInput struct {
	down, up, move func(x, y float32)
	scroll         func(delta float32)
	key            func(keyCode uint32)
	hand           bool
}

func (f *fakeInput) SetMouseDownCallback(callback func(x, y float32)) { f.down = callback }
func (f *fakeInput) SetMouseUpCallback(callback func(x, y float32))   { f.up = callback }
func (f *fakeInput) SetMouseMoveCallback(callback func(x, y float32)) { f.move = callback }
func (f *fakeInput) SetScrollCallback(callback func(delta float32))   { f.scroll = callback }
func (f *fakeInput) SetKeyDownCallback(callback func(keyCode uint32)) { f.key = callback }
func (f *fakeInput) SetHandCursor(hand bool)                          { f.hand = hand }

func (f *fakeInput) detached() bool {
	return f.down == nil && f.up == nil && f.move == nil && f.scroll == nil && f.key == nil
}

type imageSource struct {
	img image.Image
	err error
}

func (s *imageSource) Open(path string) (image.Image, error) {
	return s.img, s.err
}

// failAfterRenderer fails InitBindGroup once the allowance is used up.
type failAfterRenderer struct {
	*renderertest.TrackingRenderer
	allowed int
}

func (f *failAfterRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if f.allowed == 0 {
		return errors.New("out of memory")
	}
	f.allowed--
	return f.TrackingRenderer.InitBindGroup(provider, descriptor)
}

type harness struct {
	viewer    Viewer
	renderer  *renderertest.TrackingRenderer
	scheduler *window.ManualScheduler
	viewport  *fakeViewport
	input     *fakeInput
}

func newHarness(t *testing.T, cfg *config.Config, options ...ViewerBuilderOption) *harness {
	t.Helper()
	h := &harness{
		renderer:  renderertest.NewTrackingRenderer(800, 600),
		scheduler: window.NewManualScheduler(),
		viewport:  &fakeViewport{width: 800, height: 600},
		input:     &fakeInput{},
	}
	if cfg == nil {
		cfg = config.Default()
	}
	opts := append([]ViewerBuilderOption{
		WithConfig(cfg),
		WithViewport(h.viewport),
		WithInput(h.input),
		WithScheduler(h.scheduler),
		WithRendererFactory(func(renderer.Surface, *config.Config, common.Logger) (renderer.Renderer, error) {
			return h.renderer, nil
		}),
	}, options...)

	v, err := NewViewer(opts...)
	require.NoError(t, err)
	h.viewer = v
	return h
}

func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Controls.AutoRotate = false
	cfg.Controls.Damping = false
	return cfg
}

func center(r common.Rect) (float32, float32) {
	return float32(r.X + r.Width/2), float32(r.Y + r.Height/2)
}

func TestMountDrawsMainMinimapAndControls(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Mount())
	assert.True(t, h.viewer.Mounted())
	require.True(t, h.scheduler.Step())

	passes := h.renderer.Passes()
	require.Len(t, passes, 3)
	assert.Equal(t, "Panorama", passes[0].Label)
	assert.True(t, passes[0].Clear)
	assert.Equal(t, common.Rect{Width: 800, Height: 600}, passes[0].Rect)
	assert.Len(t, passes[0].Draws, 1)

	assert.Equal(t, "Minimap", passes[1].Label)
	assert.False(t, passes[1].Clear)
	assert.Equal(t, common.Rect{X: 630, Y: 20, Width: 150, Height: 150}, passes[1].Rect)

	assert.Equal(t, "Controls", passes[2].Label)
	assert.Equal(t, 1, h.renderer.Presented())
	assert.NotNil(t, h.viewport.onResize)
	assert.False(t, h.input.detached())
}

func TestUnmountReleasesEverythingOnce(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Mount())
	h.scheduler.StepN(3)
	require.Positive(t, h.renderer.Acquisitions())

	h.viewer.Unmount()
	assert.False(t, h.viewer.Mounted())
	assert.Empty(t, h.renderer.Leaks())
	assert.Empty(t, h.renderer.DoubleReleases())
	assert.Empty(t, h.renderer.UseAfterRelease())
	assert.Equal(t, h.renderer.Acquisitions(), h.renderer.Releases())
	assert.True(t, h.renderer.Closed())
	assert.Nil(t, h.viewport.onResize)
	assert.True(t, h.input.detached())

	// The frame queued before Unmount must not touch the renderer.
	frames := h.renderer.Frames()
	h.scheduler.StepN(3)
	assert.Equal(t, frames, h.renderer.Frames())
	assert.Zero(t, h.renderer.CallsAfterClose())

	h.viewer.Unmount()
	assert.Empty(t, h.renderer.DoubleReleases())
}

func TestUnmountWithoutMount(t *testing.T) {
	h := newHarness(t, nil)
	h.viewer.Unmount()
	assert.False(t, h.renderer.Closed())
}

func TestMountFailureReleasesPartialResources(t *testing.T) {
	h := newHarness(t, nil)
	failing := &failAfterRenderer{TrackingRenderer: h.renderer, allowed: 1}
	v, err := NewViewer(
		WithViewport(h.viewport),
		WithInput(h.input),
		WithScheduler(h.scheduler),
		WithRendererFactory(func(renderer.Surface, *config.Config, common.Logger) (renderer.Renderer, error) {
			return failing, nil
		}),
	)
	require.NoError(t, err)

	err = v.Mount()
	require.Error(t, err)
	assert.ErrorContains(t, err, "minimap")
	assert.False(t, v.Mounted())

	assert.Positive(t, h.renderer.Acquisitions())
	assert.Empty(t, h.renderer.Leaks())
	assert.Empty(t, h.renderer.DoubleReleases())
	assert.True(t, h.renderer.Closed())
	assert.Nil(t, h.viewport.onResize)
	assert.True(t, h.input.detached())
	assert.Zero(t, h.scheduler.Pending())
}

func TestMountErrors(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Mount())
	assert.ErrorIs(t, h.viewer.Mount(), ErrAlreadyMounted)
	h.viewer.Unmount()

	empty := newHarness(t, nil)
	empty.viewport.width = 0
	assert.ErrorIs(t, empty.viewer.Mount(), ErrInvalidViewport)
	assert.False(t, empty.renderer.Closed())

	broken := newHarness(t, nil, WithRendererFactory(func(renderer.Surface, *config.Config, common.Logger) (renderer.Renderer, error) {
		return nil, renderer.ErrSurfaceUnavailable
	}))
	assert.ErrorIs(t, broken.viewer.Mount(), renderer.ErrSurfaceUnavailable)
	assert.False(t, broken.viewer.Mounted())
	assert.Nil(t, broken.viewport.onResize)

	_, err := NewViewer(WithConfig(&config.Config{}))
	assert.Error(t, err)
}

func TestRemount(t *testing.T) {
	var renderers []*renderertest.TrackingRenderer
	h := newHarness(t, nil, WithRendererFactory(func(renderer.Surface, *config.Config, common.Logger) (renderer.Renderer, error) {
		r := renderertest.NewTrackingRenderer(800, 600)
		renderers = append(renderers, r)
		return r, nil
	}))

	require.NoError(t, h.viewer.Mount())
	h.scheduler.Step()
	h.viewer.Unmount()
	require.NoError(t, h.viewer.Mount())
	h.scheduler.StepN(2)
	h.viewer.Unmount()

	require.Len(t, renderers, 2)
	for _, r := range renderers {
		assert.Empty(t, r.Leaks())
		assert.Empty(t, r.DoubleReleases())
		assert.Zero(t, r.CallsAfterClose())
	}
	assert.Equal(t, 1, renderers[0].Frames())
	assert.Equal(t, 2, renderers[1].Frames())
}

func TestResize(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Mount())
	assert.InDelta(t, 800.0/600.0, h.viewer.Camera().Aspect(), 1e-6)

	h.viewport.onResize(1000, 500)
	assert.InDelta(t, 2, h.viewer.Camera().Aspect(), 1e-6)
	w, ht := h.renderer.SurfaceSize()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, ht)
	assert.Equal(t, 1, h.renderer.Resizes())

	h.scheduler.Step()
	passes := h.renderer.Passes()
	require.Len(t, passes, 3)
	assert.Equal(t, common.Rect{Width: 1000, Height: 500}, passes[0].Rect)
	assert.Equal(t, common.Rect{X: 830, Y: 20, Width: 150, Height: 150}, passes[1].Rect)

	h.viewport.onResize(0, 500)
	h.viewer.Resize(640, -1)
	assert.Equal(t, 1, h.renderer.Resizes())
	assert.InDelta(t, 2, h.viewer.Camera().Aspect(), 1e-6)
}

func TestPointerRouting(t *testing.T) {
	h := newHarness(t, quietConfig())
	require.NoError(t, h.viewer.Mount())
	ctrl := h.viewer.Controller()
	require.InDelta(t, 100, ctrl.Distance(), 1e-4)

	zoomIn := h.viewer.Panel().Layout(800, 600)[0]
	x, y := center(zoomIn.Rect)
	h.input.move(x, y)
	assert.True(t, h.input.hand)
	h.input.down(x, y)
	assert.False(t, ctrl.Dragging())
	assert.InDelta(t, 80, ctrl.Distance(), 1e-4)
	assert.InDelta(t, 80, ctrl.MinDistance(), 1e-4)
	h.input.up(x, y)

	h.input.down(700, 90)
	assert.False(t, ctrl.Dragging(), "the minimap does not start a drag")

	h.input.down(100, 300)
	assert.True(t, ctrl.Dragging())
	h.input.move(160, 300)
	assert.False(t, h.input.hand)
	h.input.up(160, 300)
	assert.False(t, ctrl.Dragging())

	before := ctrl.Azimuth()
	h.scheduler.Step()
	assert.NotEqual(t, before, ctrl.Azimuth())

	distance := ctrl.Distance()
	h.input.scroll(-1)
	assert.Greater(t, ctrl.Distance(), distance)
}

func TestKeyboardCommands(t *testing.T) {
	h := newHarness(t, quietConfig())
	require.NoError(t, h.viewer.Mount())
	ctrl := h.viewer.Controller()

	h.input.key(common.KeyLeft)
	h.scheduler.Step()
	assert.InDelta(t, -0.1, ctrl.Azimuth(), 1e-5)

	h.input.key(common.KeySpace)
	assert.True(t, ctrl.AutoRotate())
	h.input.key(common.KeySpace)
	assert.False(t, ctrl.AutoRotate())

	h.input.key(common.KeyEqual)
	assert.InDelta(t, 80, ctrl.Distance(), 1e-4)
	h.input.key(common.KeyMinus)
	assert.InDelta(t, 96, ctrl.Distance(), 1e-4)

	h.input.key(common.KeyR)
	assert.InDelta(t, 100, ctrl.Distance(), 1e-4)
	assert.InDelta(t, 100, ctrl.MinDistance(), 1e-4)
	assert.InDelta(t, 500, ctrl.MaxDistance(), 1e-4)
	assert.Zero(t, ctrl.Azimuth())
}

func TestMinimapFollowsCamera(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.viewer.Mount())

	for i := 0; i < 30; i++ {
		require.True(t, h.scheduler.Step())
		dir := h.viewer.Camera().Direction()
		want := float64(minimap.IndicatorAngle(dir))
		assert.InDelta(t, want, h.viewer.Minimap().Angle(), 1e-6)
		assert.InDelta(t, -math.Atan2(float64(dir.X()), float64(dir.Z())), h.viewer.Minimap().Angle(), 1e-5)
	}
	assert.NotZero(t, h.viewer.Minimap().Angle(), "auto rotation turns the indicator")
}

func TestPanoramaTextureUpload(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	l := loader.NewLoader(loader.BackendTypeFile, loader.WithImageSource(&imageSource{img: img}))

	cfg := config.Default()
	cfg.Image = "pano.png"
	h := newHarness(t, cfg, WithLoader(l))
	require.NoError(t, h.viewer.Mount())

	sphere := h.viewer.Scene().Models()[0]
	assert.NotEqual(t, common.ColorWhite, sphere.Material().Color())
	before := sphere.Material().BindGroupProvider()

	l.Wait()
	h.scheduler.Step()
	assert.Equal(t, common.ColorWhite, sphere.Material().Color())
	assert.NotEqual(t, before.ID(), sphere.Material().BindGroupProvider().ID())

	h.scheduler.Step()
	h.viewer.Unmount()
	assert.Empty(t, h.renderer.Leaks())
	assert.Empty(t, h.renderer.DoubleReleases())
	assert.Empty(t, h.renderer.UseAfterRelease())
}

func TestPanoramaLoadFailureKeepsFallback(t *testing.T) {
	l := loader.NewLoader(loader.BackendTypeFile, loader.WithImageSource(&imageSource{err: errors.New("corrupt")}))
	cfg := config.Default()
	cfg.Image = "broken.png"
	h := newHarness(t, cfg, WithLoader(l))
	require.NoError(t, h.viewer.Mount())

	l.Wait()
	h.scheduler.Step()
	sphere := h.viewer.Scene().Models()[0]
	fallback, err := common.ParseHexColor(cfg.Sphere.FallbackColor)
	require.NoError(t, err)
	assert.Equal(t, fallback, sphere.Material().Color())
	assert.Len(t, h.renderer.Passes(), 3)
	h.viewer.Unmount()
}

func TestLedgerReleasesInReverseOnce(t *testing.T) {
	l := newLedger()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		n := name
		id := l.add(n, func() { order = append(order, n) })
		assert.NotEmpty(t, id)
	}
	assert.Equal(t, 3, l.len())
	assert.Equal(t, []string{"c", "b", "a"}, l.releaseAll())
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Empty(t, l.releaseAll())
	assert.Equal(t, []string{"c", "b", "a"}, order)
}

func TestMountLogsLedgerEntryIDs(t *testing.T) {
	var out bytes.Buffer
	logger := common.NewWriterLogger("viewer", true, &out, &out)
	h := newHarness(t, nil, WithLogger(logger))
	require.NoError(t, h.viewer.Mount())
	h.viewer.Unmount()

	matches := regexp.MustCompile(`acquired ([a-z ]+) \(([0-9a-f-]{36})\)`).FindAllStringSubmatch(out.String(), -1)
	require.Len(t, matches, 7)
	assert.Equal(t, "renderer", matches[0][1])
	assert.Equal(t, "render loop", matches[6][1])

	seen := map[string]bool{}
	for _, m := range matches {
		_, err := uuid.Parse(m[2])
		assert.NoError(t, err)
		assert.False(t, seen[m[2]], "entry ids are unique")
		seen[m[2]] = true
	}
}
