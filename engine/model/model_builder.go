package model

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithLabel is an option builder that sets the debug label of the Model.
//
// Parameters:
//   - label: the model label
//
// Returns:
//   - ModelBuilderOption: a function that applies the label option to a model
func WithLabel(label string) ModelBuilderOption {
	return func(m *model) {
		m.label = label
	}
}

// WithPosition is an option builder that sets the translation of the Model.
//
// Parameters:
//   - p: the translation
//
// Returns:
//   - ModelBuilderOption: a function that applies the position option to a model
func WithPosition(p mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.position = p
	}
}

// WithScale is an option builder that sets the per-axis scale of the Model.
//
// Parameters:
//   - s: the scale
//
// Returns:
//   - ModelBuilderOption: a function that applies the scale option to a model
func WithScale(s mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.scale = s
	}
}

// WithRotationZ is an option builder that sets the rotation of the Model around the Z axis.
//
// Parameters:
//   - radians: the counter-clockwise rotation
//
// Returns:
//   - ModelBuilderOption: a function that applies the rotation option to a model
func WithRotationZ(radians float32) ModelBuilderOption {
	return func(m *model) {
		m.rotationZ = radians
	}
}
