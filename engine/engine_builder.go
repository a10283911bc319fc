package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithScheduler sets the frame scheduler that paces the loop.
//
// Parameters:
//   - s: the scheduler, typically the window's frame scheduler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScheduler(s Scheduler) EngineBuilderOption {
	return func(e *engine) {
		e.scheduler = s
	}
}

// WithRenderer sets the renderer that owns the frame lifecycle. Without a renderer layers are
// not drawn.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithSubsystem appends a subsystem. Subsystems tick in the order they are added.
//
// Parameters:
//   - name: a label used in error messages
//   - s: the subsystem
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSubsystem(name string, s Subsystem) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.subsystems = append(e.subsystems, namedSubsystem{name: name, Subsystem: s})
		}
	}
}

// WithLayer appends a draw layer. Layers draw in the order they are added.
//
// Parameters:
//   - name: a label used in error messages
//   - l: the layer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLayer(name string, l Layer) EngineBuilderOption {
	return func(e *engine) {
		if l != nil {
			e.layers = append(e.layers, namedLayer{name: name, Layer: l})
		}
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithLogger sets the logger used for frame failures and the default profiler.
func WithLogger(logger common.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the time source used for frame deltas.
func WithClock(now func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if now != nil {
			e.now = now
		}
	}
}
