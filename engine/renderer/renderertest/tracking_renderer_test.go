package renderertest

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAndReleaseAccounting(t *testing.T) {
	r := NewTrackingRenderer(640, 480)
	p := bind_group_provider.NewBindGroupProvider("sphere material")

	require.NoError(t, r.InitTextureView(p, 1, common.SolidTexture(common.ColorWhite)))
	require.NoError(t, r.InitSampler(p, 2, common.SamplerStagingData{}))
	require.NoError(t, r.InitBindGroup(p, wgpu.BindGroupLayoutDescriptor{}))
	assert.Equal(t, 1, r.Acquisitions())
	assert.Equal(t, []string{"sphere material"}, r.Leaks())

	r.ReleaseProvider(p)
	r.ReleaseProvider(p)
	assert.Equal(t, 1, r.Releases())
	assert.Empty(t, r.Leaks())
	assert.Equal(t, []string{p.ID()}, r.DoubleReleases())
}

func TestFrameAndPassRecording(t *testing.T) {
	r := NewTrackingRenderer(800, 600)
	pipelines, err := pipeline.NewBasicPipelines()
	require.NoError(t, err)
	require.NoError(t, r.RegisterPipelines(pipelines...))

	mesh := bind_group_provider.NewBindGroupProvider("mesh")
	mat := bind_group_provider.NewBindGroupProvider("material")
	require.NoError(t, r.InitMeshBuffers(mesh, []byte{0}, []byte{0}, 3))
	require.NoError(t, r.InitBindGroup(mat, wgpu.BindGroupLayoutDescriptor{}))

	assert.ErrorIs(t, r.BeginPass(renderer.Target{}), renderer.ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(renderer.Target{Label: "main", Clear: true}))
	require.NoError(t, r.DrawCall(pipeline.KeyBasicFront, mesh, 1, []bind_group_provider.BindGroupProvider{mat}))
	assert.Error(t, r.DrawCall("missing", mesh, 1, nil))
	r.EndPass()
	r.EndFrame()
	r.Present()

	passes := r.Passes()
	require.Len(t, passes, 1)
	assert.Equal(t, common.Rect{Width: 800, Height: 600}, passes[0].Rect)
	assert.Equal(t, []string{pipeline.KeyBasicFront}, passes[0].Draws)
	assert.Equal(t, 1, r.Presented())
	assert.False(t, r.FrameOpen())

	r.ReleaseProvider(mat)
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginPass(renderer.Target{Label: "main"}))
	assert.Error(t, r.DrawCall(pipeline.KeyBasicFront, mesh, 1, []bind_group_provider.BindGroupProvider{mat}))
	assert.Equal(t, []string{mat.ID()}, r.UseAfterRelease())
}

func TestFailureInjection(t *testing.T) {
	r := NewTrackingRenderer(10, 10)
	boom := errors.New("boom")
	r.FailOn("BeginFrame", boom)
	assert.ErrorIs(t, r.BeginFrame(), boom)

	r.FailOn("BeginFrame", nil)
	assert.NoError(t, r.BeginFrame())
}

func TestCallsAfterClose(t *testing.T) {
	r := NewTrackingRenderer(10, 10)
	r.Release()
	p := bind_group_provider.NewBindGroupProvider("late")
	_ = r.InitBindGroup(p, wgpu.BindGroupLayoutDescriptor{})
	assert.True(t, r.Closed())
	assert.Equal(t, 1, r.CallsAfterClose())
}

func TestReleasingUnacquiredProviderIsNoop(t *testing.T) {
	r := NewTrackingRenderer(10, 10)
	p := bind_group_provider.NewBindGroupProvider("never used")
	r.FailOn("InitMeshBuffers", errors.New("out of memory"))

	assert.Error(t, r.InitMeshBuffers(p, []byte{0}, []byte{0}, 3))
	r.ReleaseProvider(p)

	assert.Zero(t, r.Acquisitions())
	assert.Zero(t, r.Releases())
	assert.Empty(t, r.DoubleReleases())
}
