package kepler

import "math"

// Solver defaults.
const (
	// DefaultMaxIterations bounds the Newton steps taken per element.
	DefaultMaxIterations = 2000

	// DefaultTolerance is the Newton step size at which an element is
	// considered converged. It is also the eccentricity at or below which
	// an orbit is treated as circular.
	DefaultTolerance = 1e-10
)

// Angle constants.
const (
	// TwoPi is one full turn in radians.
	TwoPi = 2 * math.Pi

	// halfAngleGuard is the smallest 1+cos(E) for which the half-angle
	// tangent tan(E/2) = sin(E)/(1+cos(E)) is evaluated directly. Below it
	// E is within ~1.4e-6 rad of pi and the atan2 form is used instead.
	halfAngleGuard = 1e-12
)
