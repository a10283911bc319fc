// Package engine drives the per-frame update and draw loop of the viewer.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-pano/common"
	"github.com/Carmen-Shannon/oxy-pano/engine/profiler"
	"github.com/Carmen-Shannon/oxy-pano/engine/renderer"
)

var (
	// ErrAlreadyStarted is returned by Start on a running engine.
	ErrAlreadyStarted = errors.New("engine already started")
	// ErrStopped is returned by Start once the engine has been stopped. A stopped engine cannot be restarted.
	ErrStopped = errors.New("engine stopped")
)

// failureLogInterval is how many consecutive failed frames pass between repeated warnings.
const failureLogInterval = 300

// State is the lifecycle state of the engine loop.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Scheduler runs a callback on the next display frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// Subsystem is per-frame state work that runs before anything is drawn.
type Subsystem interface {
	Tick(deltaTime float32) error
}

// SubsystemFunc adapts a function to the Subsystem interface.
type SubsystemFunc func(deltaTime float32) error

// Tick calls f(deltaTime).
func (f SubsystemFunc) Tick(deltaTime float32) error {
	return f(deltaTime)
}

// Layer draws into the current frame. Layers run in registration order, so later layers are
// composited over earlier ones.
type Layer interface {
	Draw(r renderer.Renderer) error
}

// LayerFunc adapts a function to the Layer interface.
type LayerFunc func(r renderer.Renderer) error

// Draw calls f(r).
func (f LayerFunc) Draw(r renderer.Renderer) error {
	return f(r)
}

type namedSubsystem struct {
	name string
	Subsystem
}

type namedLayer struct {
	name string
	Layer
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	state     State
	scheduler Scheduler
	renderer  renderer.Renderer

	subsystems []namedSubsystem
	layers     []namedLayer

	profiler         *profiler.Profiler
	profilingEnabled bool

	now       func() time.Time
	lastFrame time.Time
	frames    uint64

	consecutiveFailures int
	lastErr             error

	logger common.Logger
}

// Engine is the render loop driver. Once started, every frame it ticks the subsystems in order,
// then wraps all layers in one renderer frame and presents it. A frame that fails or panics is
// logged and the next frame is still scheduled; after Stop no further frame runs.
type Engine interface {
	// Start schedules the first frame.
	//
	// Returns:
	//   - error: ErrAlreadyStarted, ErrStopped, or an error if no scheduler is configured
	Start() error

	// Stop ends the loop. A frame that is already scheduled returns without doing any work.
	// Safe to call multiple times and before Start.
	Stop()

	// State returns the lifecycle state.
	State() State

	// Running reports whether the loop is running.
	Running() bool

	// Frames returns the number of frames run so far.
	Frames() uint64

	// LastError returns the error of the most recent frame, or nil if it succeeded.
	LastError() error

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (scheduler, renderer, subsystems, layers, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:     &sync.Mutex{},
		now:    time.Now,
		logger: common.NewNopLogger(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger), profiler.WithClock(e.now))
	}
	return e
}

func (e *engine) Start() error {
	e.mu.Lock()
	switch e.state {
	case StateRunning:
		e.mu.Unlock()
		return ErrAlreadyStarted
	case StateStopped:
		e.mu.Unlock()
		return ErrStopped
	}
	if e.scheduler == nil {
		e.mu.Unlock()
		return fmt.Errorf("engine has no frame scheduler")
	}
	e.state = StateRunning
	e.lastFrame = time.Time{}
	e.mu.Unlock()

	e.logger.Debugf("engine started with %d subsystems and %d layers", len(e.subsystems), len(e.layers))
	e.scheduler.RequestFrame(e.tick)
	return nil
}

func (e *engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped {
		return
	}
	e.state = StateStopped
	e.logger.Debugf("engine stopped after %d frames", e.frames)
}

func (e *engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *engine) Running() bool {
	return e.State() == StateRunning
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = true
	e.mu.Unlock()
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	e.profilingEnabled = false
	e.mu.Unlock()
}

// tick runs one frame and requests the next. The running check comes first so a frame that was
// scheduled before Stop does nothing.
func (e *engine) tick() {
	if !e.Running() {
		return
	}
	defer e.reschedule()

	e.mu.Lock()
	now := e.now()
	var dt float32
	if !e.lastFrame.IsZero() {
		dt = float32(now.Sub(e.lastFrame).Seconds())
	}
	e.lastFrame = now
	e.mu.Unlock()

	err := e.frame(dt)
	e.report(err)

	e.mu.Lock()
	e.frames++
	profiling := e.profilingEnabled
	e.mu.Unlock()
	if profiling {
		e.profiler.Tick()
	}
}

func (e *engine) reschedule() {
	if e.Running() {
		e.scheduler.RequestFrame(e.tick)
	}
}

// frame runs the subsystems and layers for one frame, converting a panic into an error.
func (e *engine) frame(dt float32) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("frame panicked: %v", rec)
		}
	}()

	var errs []error
	for _, s := range e.subsystems {
		if err := s.Tick(dt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	if e.renderer == nil || len(e.layers) == 0 {
		return errors.Join(errs...)
	}
	if err := e.renderer.BeginFrame(); err != nil {
		errs = append(errs, fmt.Errorf("begin frame: %w", err))
		return errors.Join(errs...)
	}
	defer func() {
		e.renderer.EndFrame()
		e.renderer.Present()
	}()

	for _, l := range e.layers {
		if err := l.Draw(e.renderer); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
		}
	}
	return errors.Join(errs...)
}

// report records the frame result. Only the first failure of a run and every
// failureLogInterval-th after it are logged.
func (e *engine) report(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = err

	if err == nil {
		if e.consecutiveFailures > 0 {
			e.logger.Infof("frame recovered after %d failed frames", e.consecutiveFailures)
			e.consecutiveFailures = 0
		}
		return
	}

	e.consecutiveFailures++
	if e.consecutiveFailures == 1 || e.consecutiveFailures%failureLogInterval == 0 {
		e.logger.Warnf("frame %d failed (%d consecutive): %v", e.frames, e.consecutiveFailures, err)
	}
}
