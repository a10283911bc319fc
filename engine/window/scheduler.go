package window

import "sync"

// FrameScheduler queues callbacks for the next frame. Callbacks requested while a frame is running
// are deferred to the following frame, so a callback that requests itself runs once per frame.
type FrameScheduler struct {
	mu      *sync.Mutex
	pending []func()
}

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{mu: &sync.Mutex{}}
}

// RequestFrame queues fn for the next frame. Nil callbacks are ignored.
//
// Parameters:
//   - fn: the callback to run
func (s *FrameScheduler) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// RunPending runs every callback queued before the call.
//
// Returns:
//   - int: the number of callbacks run
func (s *FrameScheduler) RunPending() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Clear drops every queued callback.
func (s *FrameScheduler) Clear() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// ManualScheduler is a FrameScheduler that only advances when stepped. It drives the render loop
// deterministically in tests and headless tools.
type ManualScheduler struct {
	*FrameScheduler
}

// NewManualScheduler creates a scheduler that runs frames only on Step.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{FrameScheduler: NewFrameScheduler()}
}

// Step runs one frame.
//
// Returns:
//   - bool: true if any callback was pending
func (s *ManualScheduler) Step() bool {
	return s.RunPending() > 0
}

// StepN runs up to n frames, stopping early once nothing is pending.
//
// Returns:
//   - int: the number of frames that ran a callback
func (s *ManualScheduler) StepN(n int) int {
	ran := 0
	for i := 0; i < n; i++ {
		if !s.Step() {
			break
		}
		ran++
	}
	return ran
}
