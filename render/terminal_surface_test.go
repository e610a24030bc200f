package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/flocking-geese/engine"
	"github.com/lixenwraith/flocking-geese/flock"
	"github.com/lixenwraith/flocking-geese/vmath"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y, width int) string {
	var sb strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestTerminalSurfaceDrawsGeese(t *testing.T) {
	screen := newTestScreen(t, 20, 11)
	ts := NewTerminalSurface(screen, 3, NewStatusLine(""))

	cols, rows := ts.FieldSize()
	assert.Equal(t, 20, cols)
	assert.Equal(t, 10, rows)

	ts.Begin(vmath.NewRect(0, 0, 200, 100))
	ts.DrawGoose(vmath.V2(105, 55), vmath.V2(1, 0))
	ts.DrawGoose(vmath.V2(15, 95), vmath.V2(0, 3))
	ts.DrawAttractor(vmath.V2(5, 5))
	ts.End(engine.Stats{Mode: engine.ModeRunning, FPS: 60, Geese: 2})

	r, _, style, _ := screen.GetContent(10, 5)
	assert.Equal(t, '→', r)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, GooseColor(1.0/3), fg)
	assert.Equal(t, RgbBackground, bg)

	r, _, style, _ = screen.GetContent(1, 9)
	assert.Equal(t, '↓', r)
	fg, _, _ = style.Decompose()
	assert.Equal(t, RgbGooseDash, fg, "max speed uses the brightest shade")

	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, GlyphAttractor, r)

	assert.True(t, strings.HasPrefix(rowText(screen, 10, 20), ModeTextRunning))
}

func TestTerminalSurfaceBeginClears(t *testing.T) {
	screen := newTestScreen(t, 10, 6)
	ts := NewTerminalSurface(screen, 3, nil)
	bounds := vmath.NewRect(0, 0, 10, 6)

	ts.Begin(bounds)
	ts.DrawGoose(vmath.V2(2.5, 2.5), vmath.V2(1, 0))
	ts.End(engine.Stats{})

	ts.Begin(bounds)
	ts.End(engine.Stats{})

	r, _, _, _ := screen.GetContent(2, 2)
	assert.Equal(t, ' ', r)

	cols, rows := ts.FieldSize()
	assert.Equal(t, 10, cols)
	assert.Equal(t, 6, rows, "no status line gives the full height")
}

func TestTerminalSurfaceIgnoresOutsidePoints(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	ts := NewTerminalSurface(screen, 3, NewStatusLine(""))

	ts.Begin(vmath.NewRect(0, 0, 10, 4))
	assert.NotPanics(t, func() {
		ts.DrawGoose(vmath.V2(-1, 2), vmath.V2(1, 0))
		ts.DrawGoose(vmath.V2(10, 2), vmath.V2(1, 0))
		ts.DrawGoose(vmath.V2(5, 4), vmath.V2(1, 0))
	})
	for y := 0; y < 4; y++ {
		assert.Equal(t, strings.Repeat(" ", 10), rowText(screen, y, 10))
	}
}

func TestTerminalSurfaceCellToWorld(t *testing.T) {
	screen := newTestScreen(t, 20, 11)
	ts := NewTerminalSurface(screen, 3, NewStatusLine(""))
	ts.Begin(vmath.NewRect(0, 0, 200, 100))

	p, ok := ts.CellToWorld(10, 5)
	require.True(t, ok)
	assert.InDelta(t, 105, p.X, 1e-9)
	assert.InDelta(t, 55, p.Y, 1e-9)

	_, ok = ts.CellToWorld(0, 10)
	assert.False(t, ok, "status row is outside the field")
	_, ok = ts.CellToWorld(-1, 0)
	assert.False(t, ok)
}

func TestTerminalSurfaceFieldBounds(t *testing.T) {
	screen := newTestScreen(t, 80, 25)
	ts := NewTerminalSurface(screen, 3, NewStatusLine(""))
	assert.Equal(t, vmath.NewRect(0, 0, 160, 96), ts.FieldBounds(2, 4))

	screen.SetSize(40, 11)
	assert.Equal(t, vmath.NewRect(0, 0, 40, 10), ts.FieldBounds(1, 1))
}

func TestRenderFlockOnSurface(t *testing.T) {
	screen := newTestScreen(t, 40, 21)
	ts := NewTerminalSurface(screen, 3, NewStatusLine(""))
	bounds := vmath.NewRect(0, 0, 40, 20)

	f := flock.New(flock.WithSeed(3))
	require.NoError(t, f.Reset(1, vmath.V2(20.5, 10.5)))

	ts.Begin(bounds)
	f.Render(ts)
	ts.End(engine.Stats{})

	r, _, _, _ := screen.GetContent(20, 10)
	assert.NotEqual(t, ' ', r)
	assert.Contains(t, string(headingGlyphs[:]), string(r))
}

func TestStatusLineText(t *testing.T) {
	sl := NewStatusLine("q quit")
	text := sl.Text(engine.Stats{
		FPS:      59.94,
		TickTime: 1250 * time.Microsecond,
		Geese:    50,
		Policy:   flock.NeighborsSnapshot,
		SimTime:  83*time.Second + 400*time.Millisecond,
	})
	assert.Equal(t, " 59.9 fps │ tick 1.25ms │ geese 50 │ snapshot │ 01:23.4 │ q quit", text)
}

func TestStatusLineModeBadge(t *testing.T) {
	screen := newTestScreen(t, 30, 2)
	sl := NewStatusLine("")

	sl.Draw(screen, 1, 30, engine.Stats{Mode: engine.ModePaused})
	assert.True(t, strings.HasPrefix(rowText(screen, 1, 30), ModeTextPaused))

	_, _, style, _ := screen.GetContent(1, 1)
	_, bg, _ := style.Decompose()
	assert.Equal(t, RgbModePausedBg, bg)
}

func TestStatusLineClipsToWidth(t *testing.T) {
	screen := newTestScreen(t, 8, 1)
	assert.NotPanics(t, func() {
		NewStatusLine("a very long legend").Draw(screen, 0, 8, engine.Stats{})
	})
	assert.Equal(t, ModeTextRunning+"  ", rowText(screen, 0, 8)[:len(ModeTextRunning)+2])
}

func TestHeadingGlyph(t *testing.T) {
	tests := []struct {
		v    vmath.Vec2
		want rune
	}{
		{vmath.V2(1, 0), '→'},
		{vmath.V2(1, 1), '↘'},
		{vmath.V2(0, 1), '↓'},
		{vmath.V2(-1, 1), '↙'},
		{vmath.V2(-1, 0), '←'},
		{vmath.V2(-1, -1), '↖'},
		{vmath.V2(0, -1), '↑'},
		{vmath.V2(1, -1), '↗'},
		{vmath.V2(0, 0), GlyphIdle},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(HeadingGlyph(tt.v)), "velocity %v", tt.v)
	}
}

func TestGooseColorClamps(t *testing.T) {
	assert.Equal(t, RgbGooseSlow, GooseColor(-1))
	assert.Equal(t, RgbGooseSlow, GooseColor(0))
	assert.Equal(t, RgbGooseFast, GooseColor(0.6))
	assert.Equal(t, RgbGooseDash, GooseColor(5))
}
