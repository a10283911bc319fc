// Package renderertest provides a Renderer that records every resource acquisition, release,
// pass and draw call without touching a GPU.
package renderertest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Event is one recorded renderer call.
type Event struct {
	// Op is the method name, e.g. "InitBindGroup" or "ReleaseProvider".
	Op string
	// ID is the provider ID the call targeted, empty for frame level calls.
	ID string
	// Label is the provider label or pass label.
	Label string
}

// Pass is a recorded render pass.
type Pass struct {
	Label string
	Rect  common.Rect
	Clear bool
	// Draws holds the pipeline key of every draw call issued in the pass.
	Draws []string
}

// TrackingRenderer is an in-memory renderer.Renderer. Resource accounting is keyed by provider
// ID: the first Init* call on a provider acquires it, ReleaseProvider releases it. A provider
// may be acquired again after it has been released.
type TrackingRenderer struct {
	mu *sync.Mutex

	width, height int
	resizes       int
	pipelines     map[string]pipeline.Pipeline

	live           map[string]string
	acquired       map[string]int
	released       map[string]int
	doubleReleases []string
	useAfterFree   []string

	events    []Event
	passes    []Pass
	frameOpen bool
	passOpen  bool
	frames    int
	presented int
	closed    bool
	misuse    int

	failures map[string]error
}

var _ renderer.Renderer = &TrackingRenderer{}

// NewTrackingRenderer creates a TrackingRenderer whose surface has the given size.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - *TrackingRenderer: the renderer
func NewTrackingRenderer(width, height int) *TrackingRenderer {
	return &TrackingRenderer{
		mu:        &sync.Mutex{},
		width:     width,
		height:    height,
		pipelines: make(map[string]pipeline.Pipeline),
		live:      make(map[string]string),
		acquired:  make(map[string]int),
		released:  make(map[string]int),
		failures:  make(map[string]error),
	}
}

// FailOn makes every subsequent call of the named method return err. A nil err clears it.
//
// Parameters:
//   - op: the method name, e.g. "BeginFrame" or "InitTextureView"
//   - err: the error to return
func (t *TrackingRenderer) FailOn(op string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.failures, op)
		return
	}
	t.failures[op] = err
}

func (t *TrackingRenderer) record(op string, provider bind_group_provider.BindGroupProvider) {
	e := Event{Op: op}
	if provider != nil {
		e.ID = provider.ID()
		e.Label = provider.Label()
	}
	t.events = append(t.events, e)
	if t.closed {
		t.misuse++
	}
}

func (t *TrackingRenderer) acquire(op string, provider bind_group_provider.BindGroupProvider) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(op, provider)
	if err := t.failures[op]; err != nil {
		return err
	}
	if _, ok := t.live[provider.ID()]; !ok {
		t.live[provider.ID()] = provider.Label()
		t.acquired[provider.ID()]++
	}
	return nil
}

func (t *TrackingRenderer) Pipeline(key string) pipeline.Pipeline {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pipelines[key]
}

func (t *TrackingRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("RegisterPipelines", nil)
	if err := t.failures["RegisterPipelines"]; err != nil {
		return err
	}
	for _, p := range pipelines {
		if _, exists := t.pipelines[p.PipelineKey()]; !exists {
			t.pipelines[p.PipelineKey()] = p
		}
	}
	return nil
}

func (t *TrackingRenderer) Resize(width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("Resize", nil)
	if err := t.failures["Resize"]; err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	t.width, t.height = width, height
	t.resizes++
	return nil
}

func (t *TrackingRenderer) SurfaceSize() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *TrackingRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (t *TrackingRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	if err := t.acquire("InitMeshBuffers", provider); err != nil {
		return err
	}
	provider.SetIndexCount(indexCount)
	return nil
}

func (t *TrackingRenderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	if !stagingData.Valid() {
		return fmt.Errorf("invalid texture for %q", provider.Label())
	}
	return t.acquire("InitTextureView", provider)
}

func (t *TrackingRenderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return t.acquire("InitSampler", provider)
}

func (t *TrackingRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return t.acquire("InitBindGroup", provider)
}

func (t *TrackingRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, w := range writes {
		t.record("WriteBuffers", w.Provider)
		if _, ok := t.live[w.Provider.ID()]; !ok {
			t.useAfterFree = append(t.useAfterFree, w.Provider.ID())
		}
	}
}

func (t *TrackingRenderer) ReleaseProvider(provider bind_group_provider.BindGroupProvider) {
	if provider == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("ReleaseProvider", provider)
	if _, ok := t.live[provider.ID()]; !ok {
		// Releasing a provider that never acquired anything is a no-op.
		if t.released[provider.ID()] > 0 {
			t.doubleReleases = append(t.doubleReleases, provider.ID())
		}
		return
	}
	delete(t.live, provider.ID())
	t.released[provider.ID()]++
	provider.Release()
}

func (t *TrackingRenderer) BeginFrame() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("BeginFrame", nil)
	if err := t.failures["BeginFrame"]; err != nil {
		return err
	}
	if t.frameOpen {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	t.frameOpen = true
	t.frames++
	return nil
}

func (t *TrackingRenderer) BeginPass(target renderer.Target) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Op: "BeginPass", Label: target.Label})
	if err := t.failures["BeginPass"]; err != nil {
		return err
	}
	if !t.frameOpen || t.passOpen {
		return renderer.ErrNoFrame
	}
	rect := target.Resolve(t.width, t.height)
	if rect.Empty() {
		return renderer.ErrEmptyViewport
	}
	t.passOpen = true
	t.passes = append(t.passes, Pass{Label: target.Label, Rect: rect, Clear: target.Clear})
	return nil
}

func (t *TrackingRenderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record("DrawCall", meshProvider)
	if err := t.failures["DrawCall"]; err != nil {
		return err
	}
	if !t.passOpen {
		return renderer.ErrNoFrame
	}
	if _, ok := t.pipelines[pipelineKey]; !ok {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	for _, p := range append([]bind_group_provider.BindGroupProvider{meshProvider}, bindGroups...) {
		if _, ok := t.live[p.ID()]; !ok {
			t.useAfterFree = append(t.useAfterFree, p.ID())
			return fmt.Errorf("provider %q used after release", p.Label())
		}
	}
	last := &t.passes[len(t.passes)-1]
	last.Draws = append(last.Draws, pipelineKey)
	return nil
}

func (t *TrackingRenderer) EndPass() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Op: "EndPass"})
	t.passOpen = false
}

func (t *TrackingRenderer) EndFrame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Op: "EndFrame"})
	t.passOpen = false
	t.frameOpen = false
}

func (t *TrackingRenderer) Present() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Op: "Present"})
	t.presented++
}

func (t *TrackingRenderer) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Op: "Release"})
	t.closed = true
}

// Acquisitions returns the total number of provider acquisitions.
func (t *TrackingRenderer) Acquisitions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.acquired {
		n += c
	}
	return n
}

// Releases returns the total number of provider releases.
func (t *TrackingRenderer) Releases() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.released {
		n += c
	}
	return n
}

// Leaks returns the labels of providers that were acquired and never released, sorted.
func (t *TrackingRenderer) Leaks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	labels := make([]string, 0, len(t.live))
	for _, label := range t.live {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// DoubleReleases returns the IDs of providers released again after their resources were
// already released.
func (t *TrackingRenderer) DoubleReleases() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.doubleReleases...)
}

// UseAfterRelease returns the IDs of providers drawn or written after being released.
func (t *TrackingRenderer) UseAfterRelease() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.useAfterFree...)
}

// CallsAfterClose returns the number of resource calls made after Release.
func (t *TrackingRenderer) CallsAfterClose() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.misuse
}

// Closed reports whether Release has been called.
func (t *TrackingRenderer) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Frames returns the number of frames begun.
func (t *TrackingRenderer) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Presented returns the number of Present calls.
func (t *TrackingRenderer) Presented() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.presented
}

// Resizes returns the number of accepted Resize calls.
func (t *TrackingRenderer) Resizes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resizes
}

// FrameOpen reports whether a frame has begun and not yet ended.
func (t *TrackingRenderer) FrameOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frameOpen
}

// Passes returns every recorded render pass.
func (t *TrackingRenderer) Passes() []Pass {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Pass(nil), t.passes...)
}

// Events returns every recorded call in order.
func (t *TrackingRenderer) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// Reset forgets recorded passes and events while keeping resource accounting.
func (t *TrackingRenderer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.passes = nil
	t.events = nil
}
