package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic clock for tests.
//
// Each call to Now returns the current time and then advances it by Step,
// so successive records get strictly increasing capture times.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at start and advancing by step.
// A zero step defaults to one millisecond.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	if step == 0 {
		step = time.Millisecond
	}
	return &StepClock{now: start, step: step}
}

// Now returns the current time and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the time the next call to Now will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *StepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
