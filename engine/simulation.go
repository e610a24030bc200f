package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/flock"
	"github.com/lixenwraith/flocking-geese/status"
	"github.com/lixenwraith/flocking-geese/vmath"
)

// Metric keys published to the status registry
const (
	MetricFPS       = "sim.fps"
	MetricTickMs    = "sim.tick_ms"
	MetricTicks     = "sim.ticks"
	MetricMode      = "sim.mode"
	MetricSimTimeMs = "sim.time_ms"
	MetricPausedMs  = "sim.paused_ms"
	MetricFlockSize = "flock.size"
	MetricPolicy    = "flock.policy"
)

// Mode is the simulation run state
type Mode uint8

const (
	ModeRunning Mode = iota
	ModePaused
)

func (m Mode) String() string {
	switch m {
	case ModeRunning:
		return "running"
	case ModePaused:
		return "paused"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Stats is the per-frame summary shown by the speedometer
type Stats struct {
	Mode     Mode
	FPS      float64
	TickTime time.Duration
	Geese    int
	Policy   flock.NeighborPolicy
	SimTime  time.Duration
	Paused   time.Duration // total time spent paused
}

// Canvas is a render target that brackets one frame of flock drawing
type Canvas interface {
	flock.Surface
	Begin(bounds vmath.Rect)
	End(stats Stats)
}

// Sounder plays a short cue
type Sounder interface {
	Honk()
}

// Frame is an immutable copy of one rendered pass for observers
type Frame struct {
	Seq        uint64
	Stats      Stats
	Bounds     vmath.Rect
	Geese      []flock.Goose
	Attractors []vmath.Vec2
}

// FrameObserver receives every frame on the scheduler goroutine
// Implementations must not block
type FrameObserver func(Frame)

// Simulation owns a flock and runs one tick-and-render pass per Step
// All methods must be called from the scheduler goroutine, through Post when
// the caller is elsewhere
type Simulation struct {
	flock  *flock.Flock
	bounds vmath.Rect

	canvas  Canvas
	sounder Sounder

	mode          Mode
	ticksPerFrame int
	lastTick      time.Duration
	seq           uint64

	frames    *FrameCounter
	clock     *PausableClock
	observers []FrameObserver
	log       *zap.Logger

	// Cached metric pointers
	statFPS       *status.AtomicFloat
	statTickMs    *status.AtomicFloat
	statSimTimeMs *status.AtomicFloat
	statPausedMs  *status.AtomicFloat
	statTicks     *atomic.Int64
	statSize      *atomic.Int64
	statMode      *status.AtomicString
	statPolicy    *status.AtomicString
}

// SimOption configures a Simulation
type SimOption func(*Simulation)

// WithCanvas sets the render target; without one the simulation runs headless
func WithCanvas(c Canvas) SimOption {
	return func(s *Simulation) { s.canvas = c }
}

// WithSounder sets the cue played on reset
func WithSounder(snd Sounder) SimOption {
	return func(s *Simulation) { s.sounder = snd }
}

// WithTicksPerFrame runs n ticks before each render
func WithTicksPerFrame(n int) SimOption {
	return func(s *Simulation) { s.ticksPerFrame = n }
}

// WithSimTimeProvider replaces the clock behind frame rate and sim time
func WithSimTimeProvider(tp TimeProvider) SimOption {
	return func(s *Simulation) {
		s.frames = NewFrameCounter(tp, constant.FrameWindow)
		s.clock = NewPausableClock(tp)
	}
}

// NewSimulation wraps f with bounds and registers its metrics in reg
func NewSimulation(f *flock.Flock, bounds vmath.Rect, reg *status.Registry, log *zap.Logger, opts ...SimOption) (*Simulation, error) {
	if f == nil {
		return nil, errors.New("simulation requires a flock")
	}
	if bounds.IsEmpty() {
		return nil, fmt.Errorf("simulation bounds: %w", flock.ErrEmptyBounds)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	if log == nil {
		log = zap.NewNop()
	}

	tp := NewMonotonicTimeProvider()
	s := &Simulation{
		flock:         f,
		bounds:        bounds,
		mode:          ModeRunning,
		ticksPerFrame: constant.TicksPerFrame,
		frames:        NewFrameCounter(tp, constant.FrameWindow),
		clock:         NewPausableClock(tp),
		log:           log,

		statFPS:       reg.Floats.Get(MetricFPS),
		statTickMs:    reg.Floats.Get(MetricTickMs),
		statSimTimeMs: reg.Floats.Get(MetricSimTimeMs),
		statPausedMs:  reg.Floats.Get(MetricPausedMs),
		statTicks:     reg.Ints.Get(MetricTicks),
		statSize:      reg.Ints.Get(MetricFlockSize),
		statMode:      reg.Strings.Get(MetricMode),
		statPolicy:    reg.Strings.Get(MetricPolicy),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ticksPerFrame < 1 {
		return nil, fmt.Errorf("ticks per frame must be positive, got %d", s.ticksPerFrame)
	}

	s.statMode.Store(s.mode.String())
	s.statPolicy.Store(f.Policy().String())
	s.statSize.Store(int64(f.Len()))
	return s, nil
}

// Step runs one pass: ticks when running, then render and publish
func (s *Simulation) Step() error {
	if s.mode == ModeRunning {
		for i := 0; i < s.ticksPerFrame; i++ {
			d, err := s.flock.Tick(s.bounds)
			if err != nil {
				return fmt.Errorf("flock tick: %w", err)
			}
			s.lastTick = d
			s.statTicks.Add(1)
		}
	}

	s.frames.Mark()
	stats := s.Stats()

	s.statFPS.Set(stats.FPS)
	s.statTickMs.Set(float64(stats.TickTime) / float64(time.Millisecond))
	s.statSimTimeMs.Set(float64(stats.SimTime) / float64(time.Millisecond))
	s.statPausedMs.Set(float64(stats.Paused) / float64(time.Millisecond))

	if s.canvas != nil {
		s.canvas.Begin(s.bounds)
		s.flock.Render(s.canvas)
		s.canvas.End(stats)
	}

	s.seq++
	if len(s.observers) > 0 {
		frame := Frame{
			Seq:        s.seq,
			Stats:      stats,
			Bounds:     s.bounds,
			Geese:      s.flock.Geese(),
			Attractors: s.flock.Attractors(),
		}
		for _, obs := range s.observers {
			obs(frame)
		}
	}
	return nil
}

// Stats returns the current speedometer values
func (s *Simulation) Stats() Stats {
	return Stats{
		Mode:     s.mode,
		FPS:      s.frames.FramesPerSecond(),
		TickTime: s.lastTick,
		Geese:    s.flock.Len(),
		Policy:   s.flock.Policy(),
		SimTime:  s.clock.Elapsed(),
		Paused:   s.clock.TotalPauseDuration(),
	}
}

// Reset repopulates the flock with size geese at origin
func (s *Simulation) Reset(size int, origin vmath.Vec2) error {
	if err := s.flock.Reset(size, origin); err != nil {
		return fmt.Errorf("reset flock: %w", err)
	}
	s.statSize.Store(int64(size))
	s.log.Info("flock reset",
		zap.Int("size", size),
		zap.Float64("x", origin.X),
		zap.Float64("y", origin.Y),
		zap.Stringer("policy", s.flock.Policy()),
	)
	if s.sounder != nil {
		s.sounder.Honk()
	}
	return nil
}

// ResetCentered repopulates the flock at the center of the current bounds
func (s *Simulation) ResetCentered(size int) error {
	return s.Reset(size, s.bounds.Center())
}

// Resize replaces the bounding region; geese wrap into it on the next tick
func (s *Simulation) Resize(bounds vmath.Rect) error {
	if bounds.IsEmpty() {
		return fmt.Errorf("resize: %w", flock.ErrEmptyBounds)
	}
	s.bounds = bounds
	s.log.Debug("bounds resized",
		zap.Float64("w", bounds.W),
		zap.Float64("h", bounds.H),
	)
	return nil
}

// SetMode switches between running and paused
func (s *Simulation) SetMode(m Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	if m == ModePaused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
		// Drop frame durations spanning the pause
		s.frames.Reset()
	}
	s.statMode.Store(m.String())
	s.log.Info("simulation mode changed", zap.Stringer("mode", m))
}

// ToggleMode flips running and paused, returning the new mode
func (s *Simulation) ToggleMode() Mode {
	if s.mode == ModeRunning {
		s.SetMode(ModePaused)
	} else {
		s.SetMode(ModeRunning)
	}
	return s.mode
}

// SetAttractor places attractor index at pos
func (s *Simulation) SetAttractor(index int, pos vmath.Vec2) error {
	return s.flock.SetAttractor(index, pos)
}

// ClearAttractors removes every attractor
func (s *Simulation) ClearAttractors() {
	s.flock.ClearAttractors()
}

// SetPolicy switches the neighbour policy
func (s *Simulation) SetPolicy(p flock.NeighborPolicy) {
	s.flock.SetPolicy(p)
	s.statPolicy.Store(p.String())
	s.log.Info("neighbor policy changed", zap.Stringer("policy", p))
}

// Observe registers fn to receive every frame
func (s *Simulation) Observe(fn FrameObserver) {
	s.observers = append(s.observers, fn)
}

func (s *Simulation) Mode() Mode         { return s.mode }
func (s *Simulation) Bounds() vmath.Rect { return s.bounds }
func (s *Simulation) Size() int          { return s.flock.Len() }
func (s *Simulation) Flock() *flock.Flock {
	return s.flock
}
