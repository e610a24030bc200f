package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/core"
)

var (
	// ErrAlreadyRunning is returned by Start while a loop is active
	ErrAlreadyRunning = errors.New("scheduler already running")

	// ErrUnknownHandle is returned by Stop for a handle this scheduler did not issue
	ErrUnknownHandle = errors.New("unknown scheduler handle")
)

// StepFunc is one tick-and-render pass
type StepFunc func() error

// Handle identifies one running scheduler loop
// It is the only way to stop that loop
type Handle struct {
	owner    *ClockScheduler
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Done is closed once the loop has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// ClockScheduler drives a step function on a fixed nominal interval
// The next pass is armed only after the current pass returns, so passes never
// overlap; commands posted from other goroutines run between passes on the
// scheduler goroutine
type ClockScheduler struct {
	interval time.Duration
	step     StepFunc
	log      *zap.Logger

	cmds chan func()

	mu     sync.Mutex
	active *Handle

	passes atomic.Uint64
	errs   atomic.Uint64
}

// NewClockScheduler creates a stopped scheduler
func NewClockScheduler(interval time.Duration, step StepFunc, log *zap.Logger) *ClockScheduler {
	if interval <= 0 {
		interval = constant.TickInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ClockScheduler{
		interval: interval,
		step:     step,
		log:      log,
		cmds:     make(chan func(), constant.CommandQueueSize),
	}
}

// Start launches the loop and returns its handle
// The loop ends on Stop(handle) or when ctx is cancelled
func (cs *ClockScheduler) Start(ctx context.Context) (*Handle, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.active != nil {
		return nil, ErrAlreadyRunning
	}

	h := &Handle{
		owner: cs,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	cs.active = h

	cs.log.Info("scheduler started", zap.Duration("interval", cs.interval))
	core.Go(func() { cs.schedulerLoop(ctx, h) })
	return h, nil
}

// Stop ends the loop identified by h and waits for an in-flight pass
// Stopping an already stopped handle is a no-op
func (cs *ClockScheduler) Stop(h *Handle) error {
	if h == nil || h.owner != cs {
		return ErrUnknownHandle
	}
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
	return nil
}

// Post queues cmd to run on the scheduler goroutine before the next pass
// Returns false if the queue is full
func (cs *ClockScheduler) Post(cmd func()) bool {
	select {
	case cs.cmds <- cmd:
		return true
	default:
		cs.log.Warn("scheduler command queue full, dropping command")
		return false
	}
}

// Passes returns the number of completed passes
func (cs *ClockScheduler) Passes() uint64 {
	return cs.passes.Load()
}

// Errors returns the number of passes whose step returned an error
func (cs *ClockScheduler) Errors() uint64 {
	return cs.errs.Load()
}

// Interval returns the nominal delay between passes
func (cs *ClockScheduler) Interval() time.Duration {
	return cs.interval
}

func (cs *ClockScheduler) schedulerLoop(ctx context.Context, h *Handle) {
	defer func() {
		cs.mu.Lock()
		if cs.active == h {
			cs.active = nil
		}
		cs.mu.Unlock()
		cs.log.Info("scheduler stopped", zap.Uint64("passes", cs.passes.Load()))
		close(h.done)
	}()

	timer := time.NewTimer(cs.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.stop:
			return
		case cmd := <-cs.cmds:
			cmd()
			continue
		case <-timer.C:
		}

		cs.drainCommands()
		cs.runPass()

		// Re-arm only after the pass completes
		timer.Reset(cs.interval)
	}
}

// drainCommands runs every queued command without blocking
func (cs *ClockScheduler) drainCommands() {
	for {
		select {
		case cmd := <-cs.cmds:
			cmd()
		default:
			return
		}
	}
}

func (cs *ClockScheduler) runPass() {
	start := time.Now()
	err := cs.step()
	cs.passes.Add(1)

	if err != nil {
		// Log first failure, then every 100th
		if n := cs.errs.Add(1); n == 1 || n%100 == 0 {
			cs.log.Error("scheduler pass failed", zap.Error(err), zap.Uint64("failures", n))
		}
		return
	}

	if d := time.Since(start); d > cs.interval {
		cs.log.Debug("scheduler pass overran interval",
			zap.Duration("pass", d),
			zap.Duration("interval", cs.interval),
		)
	}
}
