package kepler

import "math"

// Wrap returns x reduced into [0, period) using a floor-based modulo, which
// stays exact for inputs many turns away from zero.
func Wrap(x, period float64) float64 {
	return x - period*math.Floor(x/period)
}

// NormalizeAngle reduces a mean anomaly into [-pi, pi). An input of exactly
// pi maps to -pi.
func NormalizeAngle(m float64) float64 {
	return Wrap(m+math.Pi, TwoPi) - math.Pi
}

// ValidEccentricity reports whether 0 <= e < 1. NaN is invalid.
func ValidEccentricity(e float64) bool {
	return e >= 0 && e < 1
}

// CheckEccentricities returns an *EccentricityError for the first element of
// ecc outside [0, 1), or nil.
func CheckEccentricities(ecc []float64) error {
	for i, e := range ecc {
		if !ValidEccentricity(e) {
			return &EccentricityError{Index: i, Value: e}
		}
	}
	return nil
}

// Validate checks the input pair without solving it: lengths first, then
// eccentricities in order.
func Validate(meanAnomaly, ecc []float64) error {
	if len(meanAnomaly) != len(ecc) {
		return dimensionError(len(meanAnomaly), len(ecc))
	}
	return CheckEccentricities(ecc)
}
