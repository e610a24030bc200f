package vizserver

import (
	"time"

	"github.com/lixenwraith/flocking-geese/engine"
)

// Message types on the websocket feed
const (
	MessageInit  = "init"
	MessageFrame = "frame"
)

// Message is the envelope for every websocket payload
type Message struct {
	Type string     `json:"type"`
	Data *FrameData `json:"data,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GooseData struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type BoundsData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FrameData is the JSON form of engine.Frame
type FrameData struct {
	Seq        uint64      `json:"seq"`
	Mode       string      `json:"mode"`
	Policy     string      `json:"policy"`
	FPS        float64     `json:"fps"`
	TickMs     float64     `json:"tick_ms"`
	SimMs      float64     `json:"sim_ms"`
	Bounds     BoundsData  `json:"bounds"`
	Geese      []GooseData `json:"geese"`
	Attractors []Point     `json:"attractors"`
}

// NewFrameData converts f for the wire
func NewFrameData(f engine.Frame) *FrameData {
	fd := &FrameData{
		Seq:        f.Seq,
		Mode:       f.Stats.Mode.String(),
		Policy:     f.Stats.Policy.String(),
		FPS:        f.Stats.FPS,
		TickMs:     float64(f.Stats.TickTime) / float64(time.Millisecond),
		SimMs:      float64(f.Stats.SimTime) / float64(time.Millisecond),
		Bounds:     BoundsData{X: f.Bounds.X, Y: f.Bounds.Y, W: f.Bounds.W, H: f.Bounds.H},
		Geese:      make([]GooseData, len(f.Geese)),
		Attractors: make([]Point, len(f.Attractors)),
	}
	for i, g := range f.Geese {
		fd.Geese[i] = GooseData{X: g.Position.X, Y: g.Position.Y, VX: g.Velocity.X, VY: g.Velocity.Y}
	}
	for i, a := range f.Attractors {
		fd.Attractors[i] = Point{X: a.X, Y: a.Y}
	}
	return fd
}
