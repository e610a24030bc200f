package engine

import "time"

// FrameCounter measures frame rate over a sliding window of frame durations
// Owned by the scheduler goroutine, not safe for concurrent use
type FrameCounter struct {
	clock TimeProvider

	last      time.Time
	durations []time.Duration // ring buffer
	next      int
	count     int
	sum       time.Duration
}

// NewFrameCounter creates a counter averaging the last window frames
func NewFrameCounter(clock TimeProvider, window int) *FrameCounter {
	if window < 1 {
		window = 1
	}
	return &FrameCounter{
		clock:     clock,
		durations: make([]time.Duration, window),
	}
}

// Mark records a frame boundary at the current time
// The first mark only establishes the reference point
func (fc *FrameCounter) Mark() {
	now := fc.clock.Now()
	if fc.last.IsZero() {
		fc.last = now
		return
	}

	d := now.Sub(fc.last)
	if d < 0 {
		d = 0
	}
	fc.last = now

	if fc.count == len(fc.durations) {
		fc.sum -= fc.durations[fc.next]
	} else {
		fc.count++
	}
	fc.durations[fc.next] = d
	fc.sum += d
	fc.next = (fc.next + 1) % len(fc.durations)
}

// FramesPerSecond returns the windowed average, 0 until two frames are marked
func (fc *FrameCounter) FramesPerSecond() float64 {
	if fc.count == 0 || fc.sum <= 0 {
		return 0
	}
	return float64(fc.count) / fc.sum.Seconds()
}

// Reset discards all recorded frames
func (fc *FrameCounter) Reset() {
	fc.last = time.Time{}
	fc.next, fc.count, fc.sum = 0, 0, 0
}
