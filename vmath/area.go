package vmath

import "math"

// Rect is an axis-aligned region with origin at top-left
// Right and Bottom edges are exclusive
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect returns Rect{x, y, w, h}
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the region
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// IsEmpty reports a zero or negative area region, or one with non-finite extents
func (r Rect) IsEmpty() bool {
	if !(r.W > 0) || !(r.H > 0) {
		return true
	}
	return math.IsInf(r.W, 0) || math.IsInf(r.H, 0) || math.IsNaN(r.X) || math.IsNaN(r.Y)
}

// Contains reports whether p lies in [X, Right) x [Y, Bottom)
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Wrap maps p toroidally into the region
// Non-finite coordinates collapse to the region origin on that axis
func (r Rect) Wrap(p Vec2) Vec2 {
	return Vec2{wrapAxis(p.X, r.X, r.W), wrapAxis(p.Y, r.Y, r.H)}
}

func wrapAxis(v, origin, extent float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return origin
	}
	if v >= origin && v < origin+extent {
		return v
	}
	off := math.Mod(v-origin, extent)
	if off < 0 {
		off += extent
	}
	// Mod of a tiny negative can round up to extent
	if off >= extent {
		off = 0
	}
	return origin + off
}
