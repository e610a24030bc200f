package engine

import (
	"sync"
	"time"
)

// PausableClock measures simulation time: real time since creation minus every pause
type PausableClock struct {
	clock TimeProvider

	mu       sync.Mutex
	origin   time.Time
	paused   bool
	pausedAt time.Time
	stopped  time.Duration // completed pauses
}

// NewPausableClock starts a running clock on top of clock, the wall clock when nil
func NewPausableClock(clock TimeProvider) *PausableClock {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &PausableClock{clock: clock, origin: clock.Now()}
}

// Elapsed returns simulation time; frozen while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.clock.Now()
	if pc.paused {
		now = pc.pausedAt
	}
	return now.Sub(pc.origin) - pc.stopped
}

// Pause freezes simulation time; no-op when already paused
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		pc.paused, pc.pausedAt = true, pc.clock.Now()
	}
}

// Resume unfreezes simulation time; no-op when running
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		pc.stopped += pc.clock.Now().Sub(pc.pausedAt)
		pc.paused = false
	}
}

// TotalPauseDuration includes a pause still in progress
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return pc.stopped + pc.clock.Now().Sub(pc.pausedAt)
	}
	return pc.stopped
}
