package status

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricMapGetReturnsCachedPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("flock.size")
	a.Store(12)

	assert.Same(t, a, r.Ints.Get("flock.size"))
	assert.True(t, r.Ints.Has("flock.size"))
	assert.False(t, r.Ints.Has("missing"))
}

func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get("sim.ticks").Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Count())
	assert.Equal(t, int64(16), m.Get("sim.ticks").Load())
}

func TestRegistrySnapshotSorted(t *testing.T) {
	r := NewRegistry()
	r.Floats.Get("sim.fps").Set(59.5)
	r.Ints.Get("sim.ticks").Store(3)
	r.Strings.Get("sim.mode").Store("running")

	snap := r.Snapshot()
	assert.Equal(t, map[string]any{
		"sim.fps":   59.5,
		"sim.ticks": int64(3),
		"sim.mode":  "running",
	}, snap)
	assert.Equal(t, 3, r.TotalCount())

	var keys []string
	r.Floats.Get("a.first")
	r.Floats.Range(func(key string, _ *AtomicFloat) { keys = append(keys, key) })
	assert.Equal(t, []string{"a.first", "sim.fps"}, keys)
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())

	s.Store(strings.Repeat("x", MaxStringLen+10))
	assert.Len(t, s.Load(), MaxStringLen)
}
