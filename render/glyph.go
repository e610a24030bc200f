package render

import (
	"math"

	"github.com/lixenwraith/flocking-geese/vmath"
)

// Heading glyphs by octant, clockwise from +X in screen space (+Y down)
var headingGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

const (
	GlyphIdle      = '•'
	GlyphAttractor = '✚'
)

// HeadingGlyph returns an arrow pointing along velocity, or GlyphIdle when still
func HeadingGlyph(velocity vmath.Vec2) rune {
	if velocity.MagnitudeSq() == 0 || !velocity.IsFinite() {
		return GlyphIdle
	}
	octant := int(math.Round(velocity.Heading()/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return headingGlyphs[octant]
}
