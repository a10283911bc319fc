package minimap

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/renderertest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndicatorAngle(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
		want float64
	}{
		{name: "facing +z", dir: mgl32.Vec3{0, 0, 1}, want: 0},
		{name: "facing +x", dir: mgl32.Vec3{1, 0, 0}, want: -math.Pi / 2},
		{name: "facing -x", dir: mgl32.Vec3{-1, 0, 0}, want: math.Pi / 2},
		{name: "facing -z", dir: mgl32.Vec3{0, 0, -1}, want: -math.Pi},
		{name: "elevation ignored", dir: mgl32.Vec3{1, 5, 1}, want: -math.Pi / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IndicatorAngle(tt.dir), 1e-6)
		})
	}
}

func TestSyncTracksControllerHeading(t *testing.T) {
	m := NewMinimap()
	ctrl := camera.NewOrbitController(camera.WithAutoRotate(false, 0), camera.WithDamping(false, 0.05))
	cam := camera.NewCamera(camera.WithController(ctrl))

	for i := 0; i < 20; i++ {
		ctrl.OrbitLeft()
		ctrl.Update()
		cam.Update()
		m.Sync(cam.Direction())

		dir := cam.Direction()
		want := -math.Atan2(float64(dir.X()), float64(dir.Z()))
		assert.InDelta(t, want, m.Angle(), 1e-6)
		assert.Equal(t, m.Angle(), m.Indicator().RotationZ())
	}
}

func TestSyncKeepsAngleWhenDegenerate(t *testing.T) {
	m := NewMinimap()
	m.Sync(mgl32.Vec3{1, 0, 0})
	require.InDelta(t, -math.Pi/2, m.Angle(), 1e-6)

	m.Sync(mgl32.Vec3{0, 1, 0})
	m.Sync(mgl32.Vec3{float32(math.NaN()), 0, 1})
	assert.InDelta(t, -math.Pi/2, m.Angle(), 1e-6)
}

func TestViewportIsFixedSize(t *testing.T) {
	m := NewMinimap()
	assert.Equal(t, common.Rect{X: 630, Y: 20, Width: 150, Height: 150}, m.Viewport(800, 600))
	assert.Equal(t, common.Rect{X: 1730, Y: 20, Width: 150, Height: 150}, m.Viewport(1900, 1000))

	small := NewMinimap(WithSize(100), WithMargin(0))
	assert.Equal(t, common.Rect{X: 540, Y: 0, Width: 100, Height: 100}, small.Viewport(640, 480))
}

func TestDrawUsesOwnPass(t *testing.T) {
	r := renderertest.NewTrackingRenderer(800, 600)
	pipelines, err := pipeline.NewBasicPipelines()
	require.NoError(t, err)
	require.NoError(t, r.RegisterPipelines(pipelines...))

	m := NewMinimap()
	require.NoError(t, m.InitGPU(r))

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(renderer.Target{Label: "Panorama", Clear: true}))
	r.EndPass()
	require.NoError(t, m.Draw(r))
	r.EndFrame()

	passes := r.Passes()
	require.Len(t, passes, 2)
	assert.Equal(t, "Minimap", passes[1].Label)
	assert.False(t, passes[1].Clear)
	assert.Equal(t, common.Rect{X: 630, Y: 20, Width: 150, Height: 150}, passes[1].Rect)
	assert.Equal(t, []string{pipeline.KeyBasicFront, pipeline.KeyBasicFront, pipeline.KeyBasicDouble}, passes[1].Draws)

	m.Release(r)
	m.Release(r)
	assert.Empty(t, r.Leaks())
	assert.Empty(t, r.DoubleReleases())
}
