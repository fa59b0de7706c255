package forcegraph

const (
	// OriginFactor scales the attraction of nodes toward their origin.
	OriginFactor float64 = 2e4

	// OriginEpsilon softens origin attraction with distance.
	OriginEpsilon float64 = 7000

	// OriginWeakDistance is the distance within which origin attraction fades linearly.
	OriginWeakDistance float64 = 100

	// RepulsionFactor scales node repulsion. Negative values push nodes apart.
	RepulsionFactor float64 = -300

	// RepulsionEpsilon softens repulsion between near-coincident nodes.
	RepulsionEpsilon float64 = 2

	// EdgeFactor is the spring stiffness of edges.
	EdgeFactor float64 = 0.1

	// EdgeLength is the rest length of an edge before node radii are added.
	EdgeLength float64 = 10

	// VelocityDampening is applied to velocity after every integration step.
	VelocityDampening float64 = 0.4

	// CrossGroupMass replaces a node's mass for edges whose endpoints are in
	// different groups, which loosens those springs.
	CrossGroupMass float64 = 1000

	// DefaultTheta is the Barnes-Hut opening threshold.
	DefaultTheta float64 = 0.5
)
