package kepler

import (
	"fmt"
	"math"
)

// Solve allocates output buffers and solves every element of the input pair
// in order, carrying the continuation state from one element to the next.
//
// It returns ErrInvalidConfig for a bad cfg, ErrDimensionMismatch when the
// lengths differ, and an *EccentricityError at the first eccentricity
// outside [0, 1). Elements that exhaust the iteration budget are returned
// as-is and counted in Stats.NonConverged.
func Solve(meanAnomaly, ecc []float64, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(meanAnomaly) != len(ecc) {
		return nil, dimensionError(len(meanAnomaly), len(ecc))
	}

	out := NewOutput(len(meanAnomaly))
	_, stats, err := SolveInto(out, meanAnomaly, ecc, cfg, State{})
	if err != nil {
		return nil, err
	}
	return &Result{Output: out, Stats: stats}, nil
}

// SolveInto solves the input pair into caller-owned buffers starting from
// the continuation state prev, and returns the state after the last element.
// Pass the zero State for a cold start.
//
// On an *EccentricityError the elements before the failing index have been
// written and must not be relied upon.
func SolveInto(out Output, meanAnomaly, ecc []float64, cfg Config, prev State) (State, Stats, error) {
	var stats Stats
	if err := cfg.Validate(); err != nil {
		return prev, stats, err
	}
	if len(meanAnomaly) != len(ecc) {
		return prev, stats, dimensionError(len(meanAnomaly), len(ecc))
	}
	if err := out.check(len(meanAnomaly)); err != nil {
		return prev, stats, err
	}

	state := prev
	for i := range meanAnomaly {
		if !ValidEccentricity(ecc[i]) {
			return state, stats, &EccentricityError{Index: i, Value: ecc[i]}
		}

		var sol Solution
		sol, state = step(NormalizeAngle(meanAnomaly[i]), ecc[i], state, cfg)

		out.Eccentric[i] = sol.Eccentric
		out.True[i] = sol.True
		if out.Converged != nil {
			out.Converged[i] = sol.Converged
		}
		stats.record(sol)
	}

	return state, stats, nil
}

// Step solves a single element given the previous continuation state and
// returns its solution together with the state for the next element.
// Circular orbits return the zero State.
func Step(meanAnomaly, e float64, prev State, cfg Config) (Solution, State, error) {
	if err := cfg.Validate(); err != nil {
		return Solution{}, prev, err
	}
	m := NormalizeAngle(meanAnomaly)
	if !ValidEccentricity(e) {
		return Solution{}, prev, fmt.Errorf("%w: got %v", ErrInvalidEccentricity, e)
	}
	sol, next := step(m, e, prev, cfg)
	return sol, next, nil
}

// step runs the circular shortcut or the continuation Newton solve for a
// wrapped mean anomaly m and a validated eccentricity e.
func step(m, e float64, prev State, cfg Config) (Solution, State) {
	if e <= cfg.Tolerance {
		return Solution{Eccentric: m, True: m, Converged: true, Circular: true}, State{}
	}

	sol := Solution{Eccentric: m}
	if prev.Valid && !cfg.DisableWarmStart {
		sol.Eccentric = bracket(prev.extrapolate(m, e), m, e)
		sol.WarmStarted = true
	}

	eccentric := sol.Eccentric
	sinE, cosE := math.Sincos(eccentric)
	for sol.Iterations < cfg.MaxIterations {
		sol.Iterations++
		delta := (eccentric - e*sinE - m) / (1 - e*cosE)
		if math.Abs(delta) <= cfg.Tolerance {
			sol.Converged = true
			break
		}
		eccentric -= delta
		sinE, cosE = math.Sincos(eccentric)
	}

	sol.Eccentric = eccentric
	sol.True = TrueAnomaly(eccentric, sinE, cosE, e)

	return sol, State{
		MeanAnomaly:  m,
		Eccentricity: e,
		SinE:         sinE,
		Slope:        1 - e*cosE,
		Eccentric:    eccentric,
		Valid:        true,
	}
}

// bracket limits a warm-start guess to [m-e, m+e], which always contains the
// root since E - m = e*sin(E). E - e*sin(E) is strictly increasing for
// e < 1, so the root is unique and the clamp only affects speed: a linear
// extrapolation across the -pi/pi seam, or from a steep neighbour near
// e = 1, can land far outside the interval where Newton takes many steps or
// overshoots before settling.
func bracket(guess, m, e float64) float64 {
	if math.IsNaN(guess) {
		return m
	}
	return math.Max(m-e, math.Min(m+e, guess))
}

func dimensionError(nMean, nEcc int) error {
	return fmt.Errorf("%w: %d mean anomalies, %d eccentricities", ErrDimensionMismatch, nMean, nEcc)
}
