package constant

import "time"

// Simulation Loop & Timing
const (
	// TickInterval is the nominal delay between tick-and-render passes
	TickInterval = 10 * time.Millisecond

	// TicksPerFrame is the number of simulation ticks run before each render
	TicksPerFrame = 1

	// FrameWindow is the number of frame durations averaged for FPS
	FrameWindow = 32

	// CommandQueueSize is the capacity of the scheduler command queue
	CommandQueueSize = 64
)

// Flock Defaults
const (
	// FlockSize is the initial number of geese
	FlockSize = 50

	// FlockSizeStep is the increment applied by the +/- controls
	FlockSizeStep = 10

	// FlockSizeMax caps interactive growth
	FlockSizeMax = 2000

	// BoundsWidth and BoundsHeight are the default world extents when no surface sets them
	BoundsWidth  = 200.0
	BoundsHeight = 200.0
)
