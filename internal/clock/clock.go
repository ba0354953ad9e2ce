package clock

import (
	"sync"
	"time"
)

// Clock is the time source port of the scheduler.
type Clock interface {
	// Now returns the current local wall-clock time.
	Now() time.Time
	// MonotonicSeconds returns a counter that never goes backwards, in seconds.
	MonotonicSeconds() int64
}

// System reads the host clock. Its monotonic counter is derived from the
// monotonic reading captured by time.Now at construction.
type System struct {
	// start is the reference point of the monotonic counter.
	start time.Time
}

// NewSystem creates a clock backed by the host time.
func NewSystem() *System {
	return &System{
		start: time.Now(),
	}
}

// Now returns the current local time.
func (s *System) Now() time.Time {
	return time.Now()
}

// MonotonicSeconds returns whole seconds since construction plus one,
// so zero keeps meaning "never" for timestamps stored by the scheduler.
func (s *System) MonotonicSeconds() int64 {
	return int64(time.Since(s.start)/time.Second) + 1
}

// Manual is a hand-driven clock for tests and simulations.
type Manual struct {
	// now is the wall-clock time reported by Now.
	now time.Time
	// mono is the value reported by MonotonicSeconds.
	mono int64
	// mu protects now and mono.
	mu sync.Mutex
}

// NewManual creates a manual clock at the given wall time with the monotonic counter at mono.
func NewManual(now time.Time, mono int64) *Manual {
	return &Manual{
		now:  now,
		mono: mono,
	}
}

// Now returns the configured wall-clock time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// MonotonicSeconds returns the configured monotonic counter.
func (m *Manual) MonotonicSeconds() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mono
}

// Advance moves both the wall clock and the monotonic counter forward.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
	m.mono += int64(d / time.Second)
}

// Set jumps the wall clock without touching the monotonic counter, like an NTP correction.
func (m *Manual) Set(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = now
}
