package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameSchedulerDefersNestedRequests(t *testing.T) {
	s := NewFrameScheduler()
	runs := 0
	var tick func()
	tick = func() {
		runs++
		s.RequestFrame(tick)
	}
	s.RequestFrame(tick)
	s.RequestFrame(nil)
	assert.Equal(t, 1, s.Pending())

	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, s.Pending())

	s.RunPending()
	assert.Equal(t, 2, runs)

	s.Clear()
	assert.Equal(t, 0, s.RunPending())
	assert.Equal(t, 2, runs)
}

func TestManualScheduler(t *testing.T) {
	s := NewManualScheduler()
	assert.False(t, s.Step())

	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			s.RequestFrame(tick)
		}
	}
	s.RequestFrame(tick)
	assert.Equal(t, 3, s.StepN(10))
	assert.Equal(t, 3, count)
	assert.False(t, s.Step())
}
