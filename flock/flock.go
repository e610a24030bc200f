package flock

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/flocking-geese/vmath"
)

var (
	// ErrNegativeSize is returned by Reset for a negative flock size
	ErrNegativeSize = errors.New("flock size must not be negative")

	// ErrEmptyBounds is returned by Tick when the bounding region has no area
	ErrEmptyBounds = errors.New("flock bounds must have positive area")

	// ErrAttractorIndex is returned by SetAttractor for a negative index
	ErrAttractorIndex = errors.New("attractor index must not be negative")
)

// NeighborPolicy selects which state a goose's neighbours are read from during a tick
type NeighborPolicy uint8

const (
	// NeighborsLive updates in place: goose N sees geese < N already moved this tick
	// Matches the original flocking_geese behaviour, update order matters
	NeighborsLive NeighborPolicy = iota

	// NeighborsSnapshot reads every neighbour from the pre-tick state
	// Update order does not affect the result
	NeighborsSnapshot
)

func (p NeighborPolicy) String() string {
	switch p {
	case NeighborsLive:
		return "live"
	case NeighborsSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("NeighborPolicy(%d)", uint8(p))
	}
}

// ParseNeighborPolicy maps "live" or "snapshot" to a policy
func ParseNeighborPolicy(s string) (NeighborPolicy, error) {
	switch s {
	case "", "live":
		return NeighborsLive, nil
	case "snapshot":
		return NeighborsSnapshot, nil
	default:
		return NeighborsLive, fmt.Errorf("unknown neighbor policy %q", s)
	}
}

// Surface receives one draw call per goose
type Surface interface {
	DrawGoose(position, velocity vmath.Vec2)
}

// AttractorSurface is optionally implemented by surfaces that show attractors
type AttractorSurface interface {
	DrawAttractor(position vmath.Vec2)
}

// TimeProvider supplies wall-clock readings for tick timing
type TimeProvider interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// spatialIndexMin is the flock size below which a linear scan beats the R-tree
const spatialIndexMin = 32

// Flock owns an ordered collection of geese
// Not safe for concurrent use; the owner serializes Reset, Tick and Render
type Flock struct {
	geese      []Goose
	snapshot   []Goose
	attractors []vmath.Vec2

	params       Params
	policy       NeighborPolicy
	spatialIndex bool

	rng   *rand.Rand
	clock TimeProvider
}

// Option configures a Flock at construction
type Option func(*Flock)

// WithParams replaces the default steering constants
func WithParams(p Params) Option {
	return func(f *Flock) { f.params = p }
}

// WithRand injects the random source used for initial velocities
func WithRand(rng *rand.Rand) Option {
	return func(f *Flock) { f.rng = rng }
}

// WithSeed seeds a PCG random source for reproducible resets
func WithSeed(seed uint64) Option {
	return func(f *Flock) { f.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithPolicy selects the neighbour read policy
func WithPolicy(p NeighborPolicy) Option {
	return func(f *Flock) { f.policy = p }
}

// WithSpatialIndex enables R-tree neighbour lookup under NeighborsSnapshot
// Ignored under NeighborsLive, where positions move during the pass
func WithSpatialIndex(enabled bool) Option {
	return func(f *Flock) { f.spatialIndex = enabled }
}

// WithTimeProvider replaces the wall clock used to time ticks
func WithTimeProvider(tp TimeProvider) Option {
	return func(f *Flock) { f.clock = tp }
}

// New creates an empty flock
func New(opts ...Option) *Flock {
	f := &Flock{
		params: DefaultParams(),
		policy: NeighborsLive,
		clock:  wallClock{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return f
}

// Reset discards all geese and creates size new ones at origin with random velocities
func (f *Flock) Reset(size int, origin vmath.Vec2) error {
	if size < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSize, size)
	}

	f.geese = make([]Goose, size)
	for i := range f.geese {
		f.geese[i] = NewGoose(origin, f.params.InitialSpeed, f.rng)
	}
	return nil
}

// Tick advances every goose once, in collection order, and returns the wall
// time spent, floored at zero
func (f *Flock) Tick(bounds vmath.Rect) (time.Duration, error) {
	if bounds.IsEmpty() {
		return 0, fmt.Errorf("%w: %+v", ErrEmptyBounds, bounds)
	}

	start := f.clock.Now()

	neighbors := f.neighbors()
	for i := range f.geese {
		f.geese[i].Update(i, neighbors, f.attractors, bounds, &f.params)
	}

	elapsed := f.clock.Now().Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed, nil
}

// neighbors returns the view geese steer against for this tick
func (f *Flock) neighbors() Neighbors {
	if f.policy != NeighborsSnapshot {
		return GooseList(f.geese)
	}

	f.snapshot = append(f.snapshot[:0], f.geese...)
	if f.spatialIndex && len(f.snapshot) >= spatialIndexMin {
		return newRtreeIndex(f.snapshot)
	}
	return GooseList(f.snapshot)
}

// Render draws every goose, then attractors if the surface supports them
func (f *Flock) Render(surface Surface) {
	for i := range f.geese {
		surface.DrawGoose(f.geese[i].Position, f.geese[i].Velocity)
	}
	if as, ok := surface.(AttractorSurface); ok {
		for _, a := range f.attractors {
			as.DrawAttractor(a)
		}
	}
}

// SetAttractor places attractor index, growing the list as needed
// Gaps are filled with copies of pos
func (f *Flock) SetAttractor(index int, pos vmath.Vec2) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrAttractorIndex, index)
	}
	for len(f.attractors) <= index {
		f.attractors = append(f.attractors, pos)
	}
	f.attractors[index] = pos
	return nil
}

// ClearAttractors removes every attractor
func (f *Flock) ClearAttractors() {
	f.attractors = f.attractors[:0]
}

// Attractors returns a copy of the attractor positions
func (f *Flock) Attractors() []vmath.Vec2 {
	return append([]vmath.Vec2(nil), f.attractors...)
}

// Geese returns a copy of the current flock state
func (f *Flock) Geese() []Goose {
	return append([]Goose(nil), f.geese...)
}

// Len returns the number of geese
func (f *Flock) Len() int {
	return len(f.geese)
}

// Policy returns the active neighbour policy
func (f *Flock) Policy() NeighborPolicy {
	return f.policy
}

// SetPolicy switches the neighbour policy from the next tick on
func (f *Flock) SetPolicy(p NeighborPolicy) {
	f.policy = p
}

// Params returns the steering constants
func (f *Flock) Params() Params {
	return f.params
}
