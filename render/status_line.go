package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flocking-geese/engine"
)

const (
	ModeTextRunning = " RUN "
	ModeTextPaused  = " PAUSE "
	statusSeparator = " │ "
)

// StatusLine draws the speedometer row
type StatusLine struct {
	// Extra is appended after the fixed fields, e.g. a key legend
	Extra string
}

// NewStatusLine creates a speedometer with an optional trailing legend
func NewStatusLine(extra string) *StatusLine {
	return &StatusLine{Extra: extra}
}

// Draw renders stats across row y, clipped to width
func (sl *StatusLine) Draw(screen tcell.Screen, y, width int, stats engine.Stats) {
	barStyle := tcell.StyleDefault.Background(RgbStatusBarBg).Foreground(RgbStatusBar)
	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, barStyle)
	}

	modeText, modeBg := ModeTextRunning, RgbModeRunningBg
	if stats.Mode == engine.ModePaused {
		modeText, modeBg = ModeTextPaused, RgbModePausedBg
	}
	x := drawText(screen, 0, y, width, modeText, barStyle.Background(modeBg).Foreground(RgbModeText).Bold(true))

	sepStyle := barStyle.Foreground(RgbStatusSeparator)
	for i, field := range sl.fields(stats) {
		if i > 0 {
			x = drawText(screen, x, y, width, statusSeparator, sepStyle)
		} else {
			x = drawText(screen, x, y, width, " ", barStyle)
		}
		x = drawText(screen, x, y, width, field, barStyle)
	}
}

// Text returns the fields joined as plain text, without the mode badge
func (sl *StatusLine) Text(stats engine.Stats) string {
	out := ""
	for i, field := range sl.fields(stats) {
		if i > 0 {
			out += statusSeparator
		}
		out += field
	}
	return out
}

func (sl *StatusLine) fields(stats engine.Stats) []string {
	fields := []string{
		fmt.Sprintf("%5.1f fps", stats.FPS),
		fmt.Sprintf("tick %s", formatTick(stats.TickTime)),
		fmt.Sprintf("geese %d", stats.Geese),
		stats.Policy.String(),
		formatSimTime(stats.SimTime),
	}
	if sl.Extra != "" {
		fields = append(fields, sl.Extra)
	}
	return fields
}

func formatTick(d time.Duration) string {
	return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
}

// formatSimTime renders mm:ss.t
func formatSimTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := float64(d%time.Minute) / float64(time.Second)
	return fmt.Sprintf("%02d:%04.1f", minutes, seconds)
}

// drawText writes s from x and returns the column after it
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= width {
			return x
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
