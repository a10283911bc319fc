package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/shader"
)

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	label       string
	models      []model.Model
	initialized bool

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	writePool          []bind_group_provider.BufferWrite
	drawBindGroupsPool []bind_group_provider.BindGroupProvider
}

// Scene is an ordered list of models drawn with one camera. Models are drawn in insertion
// order, so translucent overlays go after what they cover.
//
// A Scene owns the GPU resources of its models: InitGPU acquires a mesh provider and a material
// provider per model and Release gives all of them back.
type Scene interface {
	// Label retrieves the debug label of the scene.
	Label() string

	// Add appends models to the draw list. Models added after InitGPU are initialized on the
	// next InitGPU call.
	//
	// Parameters:
	//   - models: the models to add
	Add(models ...model.Model)

	// Models returns the draw list in order.
	Models() []model.Model

	// Initialized reports whether GPU resources are currently held.
	Initialized() bool

	// InitGPU creates the mesh buffers and material bind groups of every model that does not have
	// them yet. On failure everything the scene holds is released before returning.
	//
	// Parameters:
	//   - r: the renderer to allocate on
	//
	// Returns:
	//   - error: an error if any resource could not be created
	InitGPU(r renderer.Renderer) error

	// Draw writes each visible model's uniform and issues its draw call into the open render pass.
	//
	// Parameters:
	//   - r: the renderer with an open pass
	//   - projector: the camera providing the view-projection matrix
	//
	// Returns:
	//   - error: the joined errors of every failed draw
	Draw(r renderer.Renderer, projector camera.Projector) error

	// ReplaceTexture swaps the color map of a model. The new bind group is created before the old
	// one is released, so a failure leaves the model drawing with its previous texture.
	//
	// Parameters:
	//   - r: the renderer to allocate on
	//   - m: a model of this scene
	//   - tex: the new RGBA color map
	//
	// Returns:
	//   - error: an error if the model is not initialized or the texture could not be created
	ReplaceTexture(r renderer.Renderer, m model.Model, tex common.TextureStagingData) error

	// Release frees the GPU resources of every model. Safe to call more than once.
	//
	// Parameters:
	//   - r: the renderer the resources were allocated on
	Release(r renderer.Renderer)
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, uninitialized Scene.
//
// Parameters:
//   - label: the debug label, also used to prefix GPU resource labels
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(label string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:                 &sync.RWMutex{},
		label:              label,
		drawBindGroupsPool: make([]bind_group_provider.BindGroupProvider, 0, 1),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Label() string {
	return s.label
}

func (s *scene) Add(models ...model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append(s.models, models...)
}

func (s *scene) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Model(nil), s.models...)
}

func (s *scene) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *scene) InitGPU(r renderer.Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, m := range s.models {
		if err := s.initModel(r, i, m); err != nil {
			s.releaseLocked(r)
			return fmt.Errorf("scene %s: %w", s.label, err)
		}
	}
	s.initialized = true
	return nil
}

func (s *scene) modelLabel(i int, m model.Model) string {
	if m.Label() != "" {
		return s.label + " " + m.Label()
	}
	return fmt.Sprintf("%s model %d", s.label, i)
}

func (s *scene) initModel(r renderer.Renderer, i int, m model.Model) error {
	label := s.modelLabel(i, m)

	if m.MeshProvider() == nil {
		mesh := m.Mesh()
		provider := bind_group_provider.NewBindGroupProvider(label + " Mesh")
		// Attach before init so a partial failure is still released.
		m.SetMeshProvider(provider)
		if err := r.InitMeshBuffers(provider, mesh.VertexData(), mesh.IndexData(), mesh.IndexCount()); err != nil {
			return fmt.Errorf("failed to init mesh %q: %w", label, err)
		}
	}

	mat := m.Material()
	if mat.BindGroupProvider() == nil {
		provider := bind_group_provider.NewBindGroupProvider(label + " Material")
		mat.SetBindGroupProvider(provider)
		if err := initMaterial(r, provider, mat, *mat.Texture()); err != nil {
			return fmt.Errorf("failed to init material %q: %w", label, err)
		}
	}
	return nil
}

// initMaterial creates the color map, sampler, uniform buffer and bind group of a basic material.
func initMaterial(r renderer.Renderer, provider bind_group_provider.BindGroupProvider, mat material.Material, tex common.TextureStagingData) error {
	if err := r.InitTextureView(provider, shader.BasicTextureBinding, tex); err != nil {
		return err
	}
	if err := r.InitSampler(provider, shader.BasicSamplerBinding, mat.Sampler()); err != nil {
		return err
	}
	return r.InitBindGroup(provider, shader.BasicBindGroupLayout())
}

func (s *scene) Draw(r renderer.Renderer, projector camera.Projector) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("scene %s: not initialized", s.label)
	}

	viewProjection := projector.ViewProjectionMatrix()
	s.writePool = s.writePool[:0]
	for _, m := range s.models {
		if !m.Visible() {
			continue
		}
		mat := m.Material()
		uniform := material.NewGPUDrawUniform(viewProjection.Mul4(m.ModelMatrix()), mat.UniformColor())
		s.writePool = append(s.writePool, bind_group_provider.BufferWrite{
			Provider: mat.BindGroupProvider(),
			Binding:  shader.BasicUniformBinding,
			Data:     uniform.Marshal(),
		})
	}
	r.WriteBuffers(s.writePool)

	var errs []error
	for i, m := range s.models {
		if !m.Visible() {
			continue
		}
		mat := m.Material()
		s.drawBindGroupsPool = append(s.drawBindGroupsPool[:0], mat.BindGroupProvider())
		if err := r.DrawCall(mat.PipelineKey(), m.MeshProvider(), 1, s.drawBindGroupsPool); err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", s.modelLabel(i, m), err))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) ReplaceTexture(r renderer.Renderer, m model.Model, tex common.TextureStagingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, candidate := range s.models {
		if candidate == m {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("scene %s: model %q is not part of the scene", s.label, m.Label())
	}
	mat := m.Material()
	old := mat.BindGroupProvider()
	if old == nil {
		return fmt.Errorf("scene %s: model %q is not initialized", s.label, m.Label())
	}

	provider := bind_group_provider.NewBindGroupProvider(s.modelLabel(idx, m) + " Material")
	if err := initMaterial(r, provider, mat, tex); err != nil {
		r.ReleaseProvider(provider)
		return fmt.Errorf("scene %s: failed to replace texture: %w", s.label, err)
	}

	mat.SetTexture(&tex)
	mat.SetBindGroupProvider(provider)
	r.ReleaseProvider(old)
	return nil
}

func (s *scene) Release(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(r)
}

func (s *scene) releaseLocked(r renderer.Renderer) {
	for _, m := range s.models {
		if p := m.MeshProvider(); p != nil {
			r.ReleaseProvider(p)
			m.SetMeshProvider(nil)
		}
		if p := m.Material().BindGroupProvider(); p != nil {
			r.ReleaseProvider(p)
			m.Material().SetBindGroupProvider(nil)
		}
	}
	s.initialized = false
}
