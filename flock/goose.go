package flock

import (
	"math/rand/v2"

	"github.com/lixenwraith/flocking-geese/vmath"
)

// Goose is a single flock member
type Goose struct {
	Position vmath.Vec2
	Velocity vmath.Vec2
}

// NewGoose places a goose at position with a velocity drawn uniformly from
// [-speed, speed) on each axis
func NewGoose(position vmath.Vec2, speed float64, rng *rand.Rand) Goose {
	return Goose{
		Position: position,
		Velocity: vmath.V2(
			(rng.Float64()*2-1)*speed,
			(rng.Float64()*2-1)*speed,
		),
	}
}

// Neighbors enumerates flock members around a point
// Within must visit at least every goose closer than radius to center, in
// ascending index order; it may visit more
type Neighbors interface {
	Within(center vmath.Vec2, radius float64, fn func(index int, other *Goose))
}

// GooseList is the linear-scan Neighbors over a slice of geese
type GooseList []Goose

// Within visits every goose
func (l GooseList) Within(_ vmath.Vec2, _ float64, fn func(int, *Goose)) {
	for i := range l {
		fn(i, &l[i])
	}
}

// Update advances the goose at index self by one tick
// Steering reads neighbors, which may alias the slice the goose lives in;
// only the receiver is mutated
func (g *Goose) Update(self int, neighbors Neighbors, attractors []vmath.Vec2, bounds vmath.Rect, p *Params) {
	acceleration := g.desiredVector(self, neighbors, attractors, p)

	g.Velocity = g.Velocity.Add(acceleration).ClampMagnitude(p.MaxSpeed)
	g.Position = bounds.Wrap(g.Position.Add(g.Velocity.Scale(p.TimeStep)))
}

// desiredVector is the weighted sum of separation, alignment and cohesion
func (g *Goose) desiredVector(self int, neighbors Neighbors, attractors []vmath.Vec2, p *Params) vmath.Vec2 {
	var separation, alignment, cohesion vmath.Vec2
	separationCount, neighbourCount := 0, 0

	// Snapshot own position: with live neighbours the receiver may be visited
	pos := g.Position

	neighbors.Within(pos, p.queryRadius(), func(index int, other *Goose) {
		if index == self {
			return
		}
		distance := other.Position.Sub(pos).Magnitude()
		// Coincident geese give no direction; NaN fails every comparison below
		if !(distance > 0) {
			return
		}
		if distance < p.PersonalSpace {
			away := pos.Sub(other.Position).Normalize().Scale(1 / distance)
			separation = separation.Add(away)
			separationCount++
		}
		if distance < p.NeighbourRadius {
			alignment = alignment.Add(other.Velocity)
			cohesion = cohesion.Add(other.Position)
			neighbourCount++
		}
	})

	if separationCount > 0 {
		separation = separation.Scale(1 / float64(separationCount))
	}
	if neighbourCount > 0 {
		alignment = alignment.Scale(1 / float64(neighbourCount)).ClampMagnitude(p.MaxTurningForce)
	}

	// Attractors blend into cohesion as heavily weighted pseudo-geese
	cohesionWeight := float64(neighbourCount)
	for _, a := range attractors {
		if a.Sub(pos).Magnitude() < p.AttractorRadius {
			cohesion = cohesion.Add(a.Scale(p.AttractorWeight))
			cohesionWeight += p.AttractorWeight
		}
	}
	if cohesionWeight > 0 {
		cohesion = g.turnTowardsTarget(cohesion.Scale(1/cohesionWeight), p)
	} else {
		cohesion = vmath.Vec2{}
	}

	return separation.Scale(p.SeparationWeight).
		Add(alignment.Scale(p.AlignmentWeight)).
		Add(cohesion.Scale(p.CohesionWeight))
}

// turnTowardsTarget returns a steering vector toward target
// Inside MaxTurningDistance the desired speed scales down with distance
func (g *Goose) turnTowardsTarget(target vmath.Vec2, p *Params) vmath.Vec2 {
	desired := target.Sub(g.Position)
	distance := desired.Magnitude()
	if !(distance > 0) {
		return vmath.Vec2{}
	}

	desired = desired.Normalize()
	if distance < p.MaxTurningDistance {
		desired = desired.Scale(p.MaxSpeed * distance / p.MaxTurningDistance)
	} else {
		desired = desired.Scale(p.MaxSpeed)
	}
	return desired.Sub(g.Velocity).ClampMagnitude(p.MaxTurningForce)
}
