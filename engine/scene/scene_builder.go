package scene

import (
	"github.com/Carmen-Shannon/oxy-pano/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithModels adds initial models to the scene, drawn in the given order.
//
// Parameters:
//   - models: the models to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModels(models ...model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.models = append(s.models, models...)
	}
}
