package flock

import (
	"slices"

	"github.com/dhconnelly/rtreego"

	"github.com/lixenwraith/flocking-geese/vmath"
)

const (
	// R-tree node fan-out
	rtreeMinChildren = 8
	rtreeMaxChildren = 16

	// pointTolerance is the half-extent of each goose's bounding box
	pointTolerance = 0.01
)

// indexedGoose wraps a snapshot member for R-tree storage
type indexedGoose struct {
	index int
	rect  rtreego.Rect
}

func (ig *indexedGoose) Bounds() rtreego.Rect {
	return ig.rect
}

// rtreeIndex answers radius queries over an immutable snapshot
// Only valid while the snapshot it was built from is unchanged
type rtreeIndex struct {
	geese GooseList
	tree  *rtreego.Rtree
	hits  []int
}

// newRtreeIndex bulk-loads positions of geese
func newRtreeIndex(geese GooseList) *rtreeIndex {
	items := make([]rtreego.Spatial, 0, len(geese))
	for i := range geese {
		p := geese[i].Position
		if !p.IsFinite() {
			continue
		}
		items = append(items, &indexedGoose{
			index: i,
			rect:  rtreego.Point{p.X, p.Y}.ToRect(pointTolerance),
		})
	}
	return &rtreeIndex{
		geese: geese,
		tree:  rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, items...),
	}
}

// Within visits candidates intersecting the query square, in index order
func (r *rtreeIndex) Within(center vmath.Vec2, radius float64, fn func(int, *Goose)) {
	if !center.IsFinite() || !(radius > 0) {
		return
	}
	bb, err := rtreego.NewRect(
		rtreego.Point{center.X - radius, center.Y - radius},
		[]float64{2 * radius, 2 * radius},
	)
	if err != nil {
		return
	}

	r.hits = r.hits[:0]
	for _, s := range r.tree.SearchIntersect(bb) {
		r.hits = append(r.hits, s.(*indexedGoose).index)
	}
	// Index order keeps floating-point summation identical to a linear scan
	slices.Sort(r.hits)

	for _, i := range r.hits {
		fn(i, &r.geese[i])
	}
}
