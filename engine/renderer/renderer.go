package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoFrame is returned when a pass or draw call is issued outside BeginFrame / EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")
	// ErrEmptyViewport is returned by BeginPass when the target region lies outside the surface.
	ErrEmptyViewport = errors.New("renderer: pass viewport is empty")
	// ErrSurfaceUnavailable is returned when the window surface cannot be created or configured.
	ErrSurfaceUnavailable = errors.New("renderer: surface unavailable")
)

// Surface is the window side of a Renderer: the platform surface descriptor plus its size.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline
	released      bool

	backendType RendererBackendType
	backend     RendererBackend
	logger      common.Logger

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	pendingPipelines     []pipeline.Pipeline
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines and owns the GPU device. Components hand their
// BindGroupProviders to the Init* methods to allocate GPU resources and give them back through
// ReleaseProvider when they are torn down.
//
// A frame is one or more render passes:
//
//	BeginFrame -> BeginPass(target) -> DrawCall... -> EndPass -> BeginPass(...) ... -> EndFrame -> Present
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for one or more pipelines and caches them by
	// PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new size. Zero sizes are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	Resize(width, height int) error

	// SurfaceSize returns the size the surface is currently configured for.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	SurfaceSize() (int, int)

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// InitMeshBuffers uploads vertex and index data into new GPU buffers owned by the provider.
	//
	// Parameters:
	//   - provider: the provider that receives the buffers
	//   - vertexData: the packed vertex buffer
	//   - indexData: the packed uint32 index buffer
	//   - indexCount: the number of indices to draw
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitTextureView uploads RGBA pixels into a new sRGB texture bound at the given binding.
	//
	// Parameters:
	//   - provider: the provider that receives the texture
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the pixels to upload
	//
	// Returns:
	//   - error: an error if the staging data is invalid or texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler bound at the given binding.
	//
	// Parameters:
	//   - provider: the provider that receives the sampler
	//   - bindingKey: the binding index of the sampler
	//   - samplerStagingData: the sampler configuration, zero fields take defaults
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// InitBindGroup creates the bind group layout, any missing uniform buffers and the bind group
	// itself. Texture and sampler bindings must have been initialized first.
	//
	// Parameters:
	//   - provider: the provider that receives the bind group
	//   - descriptor: the layout the bind group follows
	//
	// Returns:
	//   - error: an error if a binding is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues writes into provider buffers. Writes to missing buffers are skipped.
	//
	// Parameters:
	//   - writes: the buffer writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// ReleaseProvider frees every GPU resource held by the provider.
	//
	// Parameters:
	//   - provider: the provider to release
	ReleaseProvider(provider bind_group_provider.BindGroupProvider)

	// BeginFrame acquires the next surface texture and opens a command encoder.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// BeginPass opens a render pass restricted to the target's viewport.
	//
	// Parameters:
	//   - target: the pass region and load behaviour
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame, ErrEmptyViewport when the region is off-surface
	BeginPass(target Target) error

	// DrawCall records an indexed draw of the mesh with the given pipeline and bind groups.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - meshProvider: the provider holding the vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: the providers whose bind groups are set at indices 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or no pass is open
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndPass closes the open render pass, if any.
	EndPass()

	// EndFrame closes any open pass and submits the frame's commands. Safe to call without a frame.
	EndFrame()

	// Present presents the acquired surface texture. Safe to call without a frame.
	Present()

	// Release frees every registered pipeline and the GPU device. Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type drawing into the
// given surface, then configures the surface and registers any pipelines passed via
// WithPipelines.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - surface: the window surface to render into, typically a window.Window
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the GPU could not be initialized
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		logger:        common.NewNopLogger(),
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	if !r.msaa.Valid() {
		return nil, fmt.Errorf("unsupported MSAA sample count %d", r.msaa)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer backend: %w", err)
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}

	if len(r.pendingPipelines) > 0 {
		if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
			r.Release()
			return nil, err
		}
		r.pendingPipelines = nil
	}

	w, h := r.backend.SurfaceSize()
	r.logger.Debugf("renderer ready: %dx%d surface, %dx MSAA", w, h, r.msaa)
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) ReleaseProvider(provider bind_group_provider.BindGroupProvider) {
	if provider == nil {
		return
	}
	provider.Release()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) BeginPass(target Target) error {
	return r.backend.BeginPass(target)
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) EndPass() {
	r.backend.EndPass()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	if r.released {
		r.mu.Unlock()
		return
	}
	r.released = true
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()

	r.backend.Release()
}
