package constant

import "time"

// Terminal Surface
const (
	// CellWidth and CellHeight are world units per terminal cell
	// Cells are roughly twice as tall as wide
	CellWidth  = 2.0
	CellHeight = 4.0
)

// Viz Feed
const (
	VizAddr = "127.0.0.1:8787"

	// VizWatcherBuffer is the per-client frame backlog before frames are dropped
	VizWatcherBuffer = 8

	VizWriteTimeout = 2 * time.Second
	VizPingInterval = 20 * time.Second
)

// Logging
const (
	// LogFile is the log path while the terminal UI owns stdout and stderr
	LogFile = "logs/flocking-geese.log"

	// LogMaxSizeMB is the size past which the log file rotates
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept
	LogMaxBackups = 3
)
