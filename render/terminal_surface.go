package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flocking-geese/engine"
	"github.com/lixenwraith/flocking-geese/vmath"
)

// TerminalSurface draws the flock onto a tcell screen
// World bounds are scaled onto the field, which is every row except the status line
type TerminalSurface struct {
	screen tcell.Screen
	status *StatusLine

	bounds   vmath.Rect
	cols     int
	rows     int
	maxSpeed float64
}

// NewTerminalSurface creates a surface; maxSpeed scales goose colors
// A nil status line gives the whole screen to the field
func NewTerminalSurface(screen tcell.Screen, maxSpeed float64, status *StatusLine) *TerminalSurface {
	if maxSpeed <= 0 {
		maxSpeed = 1
	}
	ts := &TerminalSurface{
		screen:   screen,
		status:   status,
		maxSpeed: maxSpeed,
	}
	ts.cols, ts.rows = ts.FieldSize()
	return ts
}

// FieldSize returns the cell dimensions available for geese
func (ts *TerminalSurface) FieldSize() (cols, rows int) {
	w, h := ts.screen.Size()
	if ts.status != nil {
		h--
	}
	return max(w, 0), max(h, 0)
}

// FieldBounds returns world bounds covering the field at the given cell scale
func (ts *TerminalSurface) FieldBounds(cellWidth, cellHeight float64) vmath.Rect {
	cols, rows := ts.FieldSize()
	return vmath.NewRect(0, 0, float64(cols)*cellWidth, float64(rows)*cellHeight)
}

// Begin clears the screen for a new frame over bounds
func (ts *TerminalSurface) Begin(bounds vmath.Rect) {
	ts.bounds = bounds
	ts.cols, ts.rows = ts.FieldSize()
	ts.screen.Fill(' ', tcell.StyleDefault.Background(RgbBackground))
}

// DrawGoose implements flock.Surface
func (ts *TerminalSurface) DrawGoose(position, velocity vmath.Vec2) {
	x, y, ok := ts.worldToCell(position)
	if !ok {
		return
	}
	style := tcell.StyleDefault.
		Background(RgbBackground).
		Foreground(GooseColor(velocity.Magnitude() / ts.maxSpeed))
	ts.screen.SetContent(x, y, HeadingGlyph(velocity), nil, style)
}

// DrawAttractor implements flock.AttractorSurface
func (ts *TerminalSurface) DrawAttractor(position vmath.Vec2) {
	x, y, ok := ts.worldToCell(position)
	if !ok {
		return
	}
	style := tcell.StyleDefault.Background(RgbBackground).Foreground(RgbAttractor).Bold(true)
	ts.screen.SetContent(x, y, GlyphAttractor, nil, style)
}

// End draws the status line and flushes the frame
func (ts *TerminalSurface) End(stats engine.Stats) {
	if ts.status != nil {
		w, _ := ts.screen.Size()
		ts.status.Draw(ts.screen, ts.rows, w, stats)
	}
	ts.screen.Show()
}

// CellToWorld maps a screen cell to the world position at its center
// ok is false for cells outside the field
func (ts *TerminalSurface) CellToWorld(x, y int) (vmath.Vec2, bool) {
	if x < 0 || y < 0 || x >= ts.cols || y >= ts.rows || ts.bounds.IsEmpty() {
		return vmath.Vec2{}, false
	}
	return vmath.V2(
		ts.bounds.X+(float64(x)+0.5)*ts.bounds.W/float64(ts.cols),
		ts.bounds.Y+(float64(y)+0.5)*ts.bounds.H/float64(ts.rows),
	), true
}

func (ts *TerminalSurface) worldToCell(p vmath.Vec2) (x, y int, ok bool) {
	if ts.cols == 0 || ts.rows == 0 || ts.bounds.IsEmpty() || !p.IsFinite() {
		return 0, 0, false
	}
	x = int((p.X - ts.bounds.X) / ts.bounds.W * float64(ts.cols))
	y = int((p.Y - ts.bounds.Y) / ts.bounds.H * float64(ts.rows))
	if x < 0 || y < 0 || x >= ts.cols || y >= ts.rows {
		return 0, 0, false
	}
	return x, y, true
}
