package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/renderertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *renderertest.TrackingRenderer {
	t.Helper()
	r := renderertest.NewTrackingRenderer(800, 600)
	pipelines, err := pipeline.NewBasicPipelines()
	require.NoError(t, err)
	require.NoError(t, r.RegisterPipelines(pipelines...))
	return r
}

func drawFrame(t *testing.T, r renderer.Renderer, s Scene) error {
	t.Helper()
	require.NoError(t, r.BeginFrame())
	defer func() {
		r.EndFrame()
		r.Present()
	}()
	require.NoError(t, r.BeginPass(renderer.Target{Label: "test", Clear: true}))
	return s.Draw(r, camera.NewCamera())
}

func TestNewPanoramaDefaults(t *testing.T) {
	sphere := NewPanorama()

	assert.Equal(t, "Panorama", sphere.Label())
	assert.Equal(t, material.SideFront, sphere.Material().Side())
	assert.Equal(t, DefaultFallbackColor, sphere.Material().Color())
	assert.Len(t, sphere.Mesh().Vertices, (DefaultWidthSegments+1)*(DefaultHeightSegments+1))

	custom := NewPanorama(WithRadius(10), WithSegments(8, 4), WithFallbackColor(common.ColorBlack))
	assert.Len(t, custom.Mesh().Vertices, 9*5)
	assert.Equal(t, common.ColorBlack, custom.Material().Color())
}

func TestInitDrawRelease(t *testing.T) {
	r := newTestRenderer(t)
	sphere := NewPanorama()
	hidden := model.NewModel(model.NewQuadMesh(), material.NewMaterial())
	hidden.SetVisible(false)
	s := NewScene("Main", WithModels(sphere, hidden))

	assert.Error(t, s.Draw(r, camera.NewCamera()), "drawing before InitGPU fails")

	require.NoError(t, s.InitGPU(r))
	assert.True(t, s.Initialized())
	// One mesh and one material provider per model.
	assert.Equal(t, 4, r.Acquisitions())

	require.NoError(t, drawFrame(t, r, s))
	passes := r.Passes()
	require.Len(t, passes, 1)
	assert.Equal(t, []string{pipeline.KeyBasicFront}, passes[0].Draws)

	s.Release(r)
	s.Release(r)
	assert.False(t, s.Initialized())
	assert.Empty(t, r.Leaks())
	assert.Equal(t, 4, r.Releases())
	assert.Empty(t, r.DoubleReleases())
	assert.Nil(t, sphere.MeshProvider())
}

func TestInitFailureReleasesEverything(t *testing.T) {
	r := newTestRenderer(t)
	r.FailOn("InitBindGroup", errors.New("device lost"))
	s := NewScene("Main", WithModels(NewPanorama(), NewPanorama()))

	err := s.InitGPU(r)
	require.Error(t, err)
	assert.False(t, s.Initialized())
	assert.Empty(t, r.Leaks())
	assert.Empty(t, r.DoubleReleases())
}

func TestApplyPanoramaTexture(t *testing.T) {
	r := newTestRenderer(t)
	sphere := NewPanorama()
	s := NewScene("Main", WithModels(sphere))
	require.NoError(t, s.InitGPU(r))
	before := sphere.Material().BindGroupProvider()

	img := common.TextureStagingData{Width: 2, Height: 1, Pixels: make([]byte, 8)}
	require.NoError(t, ApplyPanoramaTexture(s, r, sphere, img))

	after := sphere.Material().BindGroupProvider()
	assert.NotEqual(t, before.ID(), after.ID())
	assert.Equal(t, common.ColorWhite, sphere.Material().Color())
	assert.Equal(t, uint32(2), sphere.Material().Texture().Width)
	// Old material released, new one held alongside the mesh.
	assert.Equal(t, 1, r.Releases())
	assert.Len(t, r.Leaks(), 2)

	require.NoError(t, drawFrame(t, r, s))
	assert.Empty(t, r.UseAfterRelease())

	s.Release(r)
	assert.Empty(t, r.Leaks())
}

func TestReplaceTextureFailureKeepsFallback(t *testing.T) {
	r := newTestRenderer(t)
	sphere := NewPanorama()
	s := NewScene("Main", WithModels(sphere))
	require.NoError(t, s.InitGPU(r))
	before := sphere.Material().BindGroupProvider()

	bad := common.TextureStagingData{Width: 4, Height: 4, Pixels: []byte{1}}
	require.Error(t, ApplyPanoramaTexture(s, r, sphere, bad))
	assert.Equal(t, before, sphere.Material().BindGroupProvider())
	assert.Equal(t, DefaultFallbackColor, sphere.Material().Color())

	other := NewPanorama()
	assert.Error(t, s.ReplaceTexture(r, other, common.SolidTexture(common.ColorWhite)))
}

func TestDrawJoinsErrors(t *testing.T) {
	r := newTestRenderer(t)
	s := NewScene("Main", WithModels(NewPanorama(), NewPanorama()))
	require.NoError(t, s.InitGPU(r))

	boom := errors.New("boom")
	r.FailOn("DrawCall", boom)
	err := drawFrame(t, r, s)
	assert.ErrorIs(t, err, boom)
}
