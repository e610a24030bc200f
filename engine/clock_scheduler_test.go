package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockSchedulerRunsPasses(t *testing.T) {
	var count atomic.Int64
	cs := NewClockScheduler(time.Millisecond, func() error {
		count.Add(1)
		return nil
	}, nil)

	h, err := cs.Start(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return count.Load() >= 5 }, time.Second, time.Millisecond)
	require.NoError(t, cs.Stop(h))

	stopped := count.Load()
	assert.Equal(t, uint64(stopped), cs.Passes())

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, stopped, count.Load(), "no passes after Stop")
}

func TestClockSchedulerPassesNeverOverlap(t *testing.T) {
	var inFlight, overlaps, passes atomic.Int64
	cs := NewClockScheduler(time.Millisecond, func() error {
		if inFlight.Add(1) > 1 {
			overlaps.Add(1)
		}
		// Slower than the interval
		time.Sleep(3 * time.Millisecond)
		inFlight.Add(-1)
		passes.Add(1)
		return nil
	}, nil)

	h, err := cs.Start(context.Background())
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return passes.Load() >= 5 }, time.Second, time.Millisecond)
	require.NoError(t, cs.Stop(h))

	assert.Zero(t, overlaps.Load())
	assert.Zero(t, inFlight.Load(), "Stop waits for the in-flight pass")
}

func TestClockSchedulerHandleOwnership(t *testing.T) {
	a := NewClockScheduler(time.Millisecond, func() error { return nil }, nil)
	b := NewClockScheduler(time.Millisecond, func() error { return nil }, nil)

	ha, err := a.Start(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, b.Stop(ha), ErrUnknownHandle)
	assert.ErrorIs(t, a.Stop(nil), ErrUnknownHandle)

	_, err = a.Start(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, a.Stop(ha))
	require.NoError(t, a.Stop(ha), "second stop is a no-op")

	// Restart issues a fresh handle
	ha2, err := a.Start(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, ha, ha2)
	require.NoError(t, a.Stop(ha2))
}

func TestClockSchedulerContextCancel(t *testing.T) {
	cs := NewClockScheduler(time.Millisecond, func() error { return nil }, nil)
	ctx, cancel := context.WithCancel(context.Background())

	h, err := cs.Start(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on cancel")
	}

	require.NoError(t, cs.Stop(h))

	h2, err := cs.Start(context.Background())
	require.NoError(t, err, "cancelled loop releases the scheduler")
	require.NoError(t, cs.Stop(h2))
}

func TestClockSchedulerPostRunsOnLoop(t *testing.T) {
	// Step and commands share state without locks; the race detector flags any overlap
	state := 0
	var passes atomic.Int64
	cs := NewClockScheduler(time.Millisecond, func() error {
		state++
		passes.Add(1)
		return nil
	}, nil)

	h, err := cs.Start(context.Background())
	require.NoError(t, err)

	done := make(chan int, 1)
	require.True(t, cs.Post(func() {
		state += 1000
		done <- state
	}))

	select {
	case v := <-done:
		assert.GreaterOrEqual(t, v, 1000)
	case <-time.After(time.Second):
		t.Fatal("posted command did not run")
	}
	require.NoError(t, cs.Stop(h))
}

func TestClockSchedulerPostQueueFull(t *testing.T) {
	cs := NewClockScheduler(time.Hour, func() error { return nil }, nil)

	accepted := 0
	for cs.Post(func() {}) {
		accepted++
		require.Less(t, accepted, 10000)
	}
	assert.Equal(t, cap(cs.cmds), accepted)
}

func TestClockSchedulerCountsErrors(t *testing.T) {
	cs := NewClockScheduler(time.Millisecond, func() error {
		return errors.New("boom")
	}, nil)

	h, err := cs.Start(context.Background())
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return cs.Errors() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, cs.Stop(h))

	assert.Equal(t, cs.Passes(), cs.Errors())
}

func TestClockSchedulerDefaultInterval(t *testing.T) {
	cs := NewClockScheduler(0, func() error { return nil }, nil)
	assert.Equal(t, 10*time.Millisecond, cs.Interval())
}
