package flock

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/flocking-geese/constant"
)

// ErrInvalidParams is returned when steering parameters cannot produce a stable flock
var ErrInvalidParams = errors.New("invalid goose params")

// Params holds the steering constants shared by every goose in a flock
type Params struct {
	MaxSpeed           float64 `toml:"max_speed" yaml:"max_speed"`
	MaxTurningForce    float64 `toml:"max_turning_force" yaml:"max_turning_force"`
	NeighbourRadius    float64 `toml:"neighbour_radius" yaml:"neighbour_radius"`
	PersonalSpace      float64 `toml:"personal_space" yaml:"personal_space"`
	MaxTurningDistance float64 `toml:"max_turning_distance" yaml:"max_turning_distance"`
	AttractorRadius    float64 `toml:"attractor_radius" yaml:"attractor_radius"`
	AttractorWeight    float64 `toml:"attractor_weight" yaml:"attractor_weight"`
	SeparationWeight   float64 `toml:"separation_weight" yaml:"separation_weight"`
	AlignmentWeight    float64 `toml:"alignment_weight" yaml:"alignment_weight"`
	CohesionWeight     float64 `toml:"cohesion_weight" yaml:"cohesion_weight"`
	TimeStep           float64 `toml:"time_step" yaml:"time_step"`
	InitialSpeed       float64 `toml:"initial_speed" yaml:"initial_speed"`
}

// DefaultParams returns the classic flocking_geese tuning
func DefaultParams() Params {
	return Params{
		MaxSpeed:           constant.GooseMaxSpeed,
		MaxTurningForce:    constant.GooseMaxTurningForce,
		NeighbourRadius:    constant.GooseNeighbourRadius,
		PersonalSpace:      constant.GoosePersonalSpace,
		MaxTurningDistance: constant.GooseMaxTurningDistance,
		AttractorRadius:    constant.GooseAttractorRadius,
		AttractorWeight:    constant.GooseAttractorWeight,
		SeparationWeight:   constant.GooseSeparationWeight,
		AlignmentWeight:    constant.GooseAlignmentWeight,
		CohesionWeight:     constant.GooseCohesionWeight,
		TimeStep:           constant.GooseTimeStep,
		InitialSpeed:       constant.GooseInitialSpeed,
	}
}

// Validate rejects non-positive radii, speeds and time step
// Weights may be zero to disable a steering component
func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"max_speed", p.MaxSpeed},
		{"max_turning_force", p.MaxTurningForce},
		{"neighbour_radius", p.NeighbourRadius},
		{"personal_space", p.PersonalSpace},
		{"max_turning_distance", p.MaxTurningDistance},
		{"time_step", p.TimeStep},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidParams, f.name, f.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"attractor_radius", p.AttractorRadius},
		{"attractor_weight", p.AttractorWeight},
		{"separation_weight", p.SeparationWeight},
		{"alignment_weight", p.AlignmentWeight},
		{"cohesion_weight", p.CohesionWeight},
		{"initial_speed", p.InitialSpeed},
	}
	for _, f := range nonNegative {
		if !(f.v >= 0) {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidParams, f.name, f.v)
		}
	}
	return nil
}

// queryRadius is the widest range any steering component looks at
func (p *Params) queryRadius() float64 {
	if p.PersonalSpace > p.NeighbourRadius {
		return p.PersonalSpace
	}
	return p.NeighbourRadius
}
