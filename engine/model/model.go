package model

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	label        string
	mesh         *Mesh
	material     material.Material
	position     mgl32.Vec3
	scale        mgl32.Vec3
	rotationZ    float32
	visible      bool
	meshProvider bind_group_provider.BindGroupProvider
}

// Model is a drawable: a mesh paired with a material and a transform.
// The mesh provider holds the GPU vertex and index buffers once the owning scene has initialized
// the model on a Renderer.
type Model interface {
	// Label retrieves the debug label of the model.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Mesh retrieves the CPU side geometry.
	//
	// Returns:
	//   - *Mesh: the mesh
	Mesh() *Mesh

	// Material retrieves the surface material.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// Position retrieves the translation of the model.
	Position() mgl32.Vec3

	// SetPosition sets the translation of the model.
	//
	// Parameters:
	//   - p: the new translation
	SetPosition(p mgl32.Vec3)

	// Scale retrieves the per-axis scale of the model.
	Scale() mgl32.Vec3

	// SetScale sets the per-axis scale of the model.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// RotationZ retrieves the rotation around the Z axis, in radians.
	RotationZ() float32

	// SetRotationZ sets the rotation around the Z axis.
	//
	// Parameters:
	//   - radians: the counter-clockwise rotation in radians
	SetRotationZ(radians float32)

	// Visible reports whether the model is drawn.
	Visible() bool

	// SetVisible shows or hides the model.
	SetVisible(visible bool)

	// ModelMatrix composes translation, Z rotation and scale into the model-to-world matrix.
	//
	// Returns:
	//   - mgl32.Mat4: T * Rz * S
	ModelMatrix() mgl32.Mat4

	// MeshProvider retrieves the BindGroupProvider holding GPU mesh resources, or nil before
	// the model has been initialized.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider attaches the BindGroupProvider holding GPU mesh resources.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model from a mesh and a material.
// The model starts visible at the origin with unit scale.
//
// Parameters:
//   - mesh: the geometry to draw
//   - mat: the surface material
//   - options: a variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the configured model
func NewModel(mesh *Mesh, mat material.Material, options ...ModelBuilderOption) Model {
	m := &model{
		mesh:     mesh,
		material: mat,
		scale:    mgl32.Vec3{1, 1, 1},
		visible:  true,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Label() string {
	return m.label
}

func (m *model) Mesh() *Mesh {
	return m.mesh
}

func (m *model) Material() material.Material {
	return m.material
}

func (m *model) Position() mgl32.Vec3 {
	return m.position
}

func (m *model) SetPosition(p mgl32.Vec3) {
	m.position = p
}

func (m *model) Scale() mgl32.Vec3 {
	return m.scale
}

func (m *model) SetScale(s mgl32.Vec3) {
	m.scale = s
}

func (m *model) RotationZ() float32 {
	return m.rotationZ
}

func (m *model) SetRotationZ(radians float32) {
	m.rotationZ = radians
}

func (m *model) Visible() bool {
	return m.visible
}

func (m *model) SetVisible(visible bool) {
	m.visible = visible
}

func (m *model) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(m.position.X(), m.position.Y(), m.position.Z())
	r := mgl32.HomogRotate3DZ(m.rotationZ)
	s := mgl32.Scale3D(m.scale.X(), m.scale.Y(), m.scale.Z())
	return t.Mul4(r).Mul4(s)
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}
