package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(5 * time.Millisecond)
	t2 := provider.Now()

	assert.GreaterOrEqual(t, t2.Sub(t1), 5*time.Millisecond)
}

func TestMockTimeProvider(t *testing.T) {
	mock := NewMockTimeProvider(testEpoch)
	assert.True(t, mock.Now().Equal(testEpoch))

	mock.Advance(time.Hour)
	mock.Advance(30 * time.Minute)
	assert.Equal(t, 90*time.Minute, mock.Now().Sub(testEpoch))

	later := testEpoch.Add(24 * time.Hour)
	mock.SetTime(later)
	assert.True(t, mock.Now().Equal(later))
}

func TestMockTimeProviderConcurrency(t *testing.T) {
	mock := NewMockTimeProvider(testEpoch)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = mock.Now()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mock.Advance(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800*time.Millisecond, mock.Now().Sub(testEpoch))
}

func TestPausableClockExcludesPauses(t *testing.T) {
	mock := NewMockTimeProvider(testEpoch)
	pc := NewPausableClock(mock)

	mock.Advance(2 * time.Second)
	assert.Equal(t, 2*time.Second, pc.Elapsed())

	pc.Pause()
	mock.Advance(5 * time.Second)
	assert.Equal(t, 2*time.Second, pc.Elapsed(), "frozen while paused")
	assert.Equal(t, 5*time.Second, pc.TotalPauseDuration())

	// Double pause keeps the original pause start
	pc.Pause()
	mock.Advance(time.Second)

	pc.Resume()
	mock.Advance(3 * time.Second)
	assert.Equal(t, 5*time.Second, pc.Elapsed())
	assert.Equal(t, 6*time.Second, pc.TotalPauseDuration())

	// Resume when running is a no-op
	pc.Resume()
	assert.Equal(t, 5*time.Second, pc.Elapsed())
}

func TestFrameCounter(t *testing.T) {
	mock := NewMockTimeProvider(testEpoch)
	fc := NewFrameCounter(mock, 4)

	assert.Zero(t, fc.FramesPerSecond())
	fc.Mark()
	assert.Zero(t, fc.FramesPerSecond(), "one mark has no duration")

	for i := 0; i < 4; i++ {
		mock.Advance(10 * time.Millisecond)
		fc.Mark()
	}
	assert.InDelta(t, 100.0, fc.FramesPerSecond(), 1e-9)

	// Window slides: four slower frames replace the fast ones
	for i := 0; i < 4; i++ {
		mock.Advance(20 * time.Millisecond)
		fc.Mark()
	}
	assert.InDelta(t, 50.0, fc.FramesPerSecond(), 1e-9)

	// Partial slide mixes both
	mock.Advance(10 * time.Millisecond)
	fc.Mark()
	assert.InDelta(t, 4/0.07, fc.FramesPerSecond(), 1e-9)

	fc.Reset()
	assert.Zero(t, fc.FramesPerSecond())
}

func TestFrameCounterBackwardsClock(t *testing.T) {
	mock := NewMockTimeProvider(testEpoch)
	fc := NewFrameCounter(mock, 0)

	fc.Mark()
	mock.Advance(-time.Second)
	fc.Mark()
	assert.Zero(t, fc.FramesPerSecond())
}
