package viewer

import (
	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/config"
	"github.com/Carmen-Shannon/oxy-pano/engine"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*viewer)

// WithViewport sets the surface the viewer renders into and listens to for resizes.
//
// Parameters:
//   - viewport: the viewport source, typically the window
//
// Returns:
//   - ViewerBuilderOption: a function that applies the viewport option
func WithViewport(viewport ViewportSource) ViewerBuilderOption {
	return func(v *viewer) {
		v.viewport = viewport
	}
}

// WithInput sets the input source. Without one the viewer only renders.
//
// Parameters:
//   - input: the input source, typically the window
//
// Returns:
//   - ViewerBuilderOption: a function that applies the input option
func WithInput(input InputSource) ViewerBuilderOption {
	return func(v *viewer) {
		v.input = input
	}
}

// WithScheduler sets the frame scheduler that paces the render loop.
func WithScheduler(s engine.Scheduler) ViewerBuilderOption {
	return func(v *viewer) {
		v.scheduler = s
	}
}

// WithRendererFactory replaces the WebGPU renderer.
func WithRendererFactory(factory RendererFactory) ViewerBuilderOption {
	return func(v *viewer) {
		if factory != nil {
			v.rendererFactory = factory
		}
	}
}

// WithLoader replaces the file image loader.
func WithLoader(l loader.Loader) ViewerBuilderOption {
	return func(v *viewer) {
		v.loader = l
	}
}

// WithConfig sets the configuration. It is validated by NewViewer.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - ViewerBuilderOption: a function that applies the config option
func WithConfig(cfg *config.Config) ViewerBuilderOption {
	return func(v *viewer) {
		if cfg != nil {
			v.cfg = cfg
		}
	}
}

// WithLogger sets the logger passed to every component the viewer creates.
func WithLogger(logger common.Logger) ViewerBuilderOption {
	return func(v *viewer) {
		if logger != nil {
			v.logger = logger
		}
	}
}
