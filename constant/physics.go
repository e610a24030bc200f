package constant

// Goose steering defaults
// Distances in world units, speeds in world units per tick
const (
	// GooseMaxSpeed caps velocity magnitude
	GooseMaxSpeed = 3.0

	// GooseMaxTurningForce caps alignment and cohesion steering per tick
	GooseMaxTurningForce = 0.05

	// GooseNeighbourRadius is the range for alignment and cohesion
	GooseNeighbourRadius = 64.0

	// GoosePersonalSpace is the range below which separation applies
	GoosePersonalSpace = 32.0

	// GooseMaxTurningDistance is where cohesion starts slowing toward target
	GooseMaxTurningDistance = 100.0

	// GooseAttractorRadius is the range at which attractors pull a goose
	GooseAttractorRadius = 320.0

	// GooseAttractorWeight is the number of geese an attractor counts as in cohesion
	GooseAttractorWeight = 1000.0

	// Steering weights
	GooseSeparationWeight = 2.0
	GooseAlignmentWeight  = 1.0
	GooseCohesionWeight   = 1.0

	// GooseTimeStep scales velocity into position each tick
	GooseTimeStep = 1.0

	// GooseInitialSpeed bounds each axis of the randomized initial velocity
	GooseInitialSpeed = 1.0
)
