package render

import "github.com/gdamore/tcell/v2"

// Palette (Tokyo Night base)
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)

	// Goose shades from slowest to fastest
	RgbGooseSlow   = tcell.NewRGBColor(120, 130, 160)
	RgbGooseCruise = tcell.NewRGBColor(180, 190, 220)
	RgbGooseFast   = tcell.NewRGBColor(235, 240, 255)
	RgbGooseDash   = tcell.NewRGBColor(255, 210, 120)

	RgbAttractor = tcell.NewRGBColor(255, 80, 80)

	RgbStatusBar       = tcell.NewRGBColor(255, 255, 255)
	RgbStatusBarBg     = tcell.NewRGBColor(40, 42, 58)
	RgbStatusSeparator = tcell.NewRGBColor(90, 95, 120)
	RgbModeRunningBg   = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbModePausedBg    = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbModeText        = tcell.NewRGBColor(0, 0, 0)
)

// gooseShades indexes goose colors by speed quartile
var gooseShades = [4]tcell.Color{RgbGooseSlow, RgbGooseCruise, RgbGooseFast, RgbGooseDash}

// GooseColor maps speed as a fraction of max speed onto the goose palette
func GooseColor(speedFraction float64) tcell.Color {
	i := int(speedFraction * float64(len(gooseShades)))
	if i < 0 {
		i = 0
	}
	if i >= len(gooseShades) {
		i = len(gooseShades) - 1
	}
	return gooseShades[i]
}
