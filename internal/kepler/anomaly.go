package kepler

import "math"

// TrueAnomaly converts an eccentric anomaly into the true anomaly for
// eccentricity e, given E together with its precomputed sine and cosine.
//
// It uses f = 2*atan(sqrt((1+e)/(1-e)) * tan(E/2)) with
// tan(E/2) = sin(E)/(1+cos(E)). When E is close to pi that quotient is 0/0,
// so the equivalent atan2 form on the half angle is used.
func TrueAnomaly(eccentric, sinE, cosE, e float64) float64 {
	denom := 1 + cosE
	if denom <= halfAngleGuard {
		sinH, cosH := math.Sincos(0.5 * eccentric)
		return 2 * math.Atan2(math.Sqrt(1+e)*sinH, math.Sqrt(1-e)*cosH)
	}
	return 2 * math.Atan(math.Sqrt((1+e)/(1-e))*sinE/denom)
}

// EccentricFromTrue is the inverse of TrueAnomaly:
// E = 2*atan(sqrt((1-e)/(1+e)) * tan(f/2)).
func EccentricFromTrue(trueAnomaly, e float64) float64 {
	return 2 * math.Atan(math.Sqrt((1-e)/(1+e))*math.Tan(0.5*trueAnomaly))
}

// Residual evaluates Kepler's equation at a candidate E: E - e*sin(E) - M.
func Residual(eccentric, e, meanAnomaly float64) float64 {
	return eccentric - e*math.Sin(eccentric) - meanAnomaly
}
