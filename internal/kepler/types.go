package kepler

import (
	"fmt"
	"math"
)

// Config holds the per-call solver parameters. It is not modified by the
// solver.
type Config struct {
	// MaxIterations bounds the Newton steps taken for each element. Must be >= 1.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`

	// Tolerance is the Newton step size that counts as converged and the
	// eccentricity at or below which the circular shortcut applies.
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`

	// DisableWarmStart seeds every element with E = M instead of
	// extrapolating from the previous element.
	DisableWarmStart bool `json:"disable_warm_start" yaml:"disable_warm_start"`
}

// DefaultConfig returns a Config with DefaultMaxIterations and DefaultTolerance.
func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Validate returns ErrInvalidConfig if the iteration bound is not positive
// or the tolerance is negative or NaN.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be >= 1, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be >= 0, got %v", ErrInvalidConfig, c.Tolerance)
	}
	return nil
}

// State is the continuation carried from one solved element to the next.
// The zero value means "no previous solution" and forces a cold start.
type State struct {
	// MeanAnomaly is the wrapped mean anomaly of the previous element.
	MeanAnomaly float64

	// Eccentricity is the eccentricity of the previous element.
	Eccentricity float64

	// SinE is sin(E) at the previous solution.
	SinE float64

	// Slope is 1 - e*cos(E) at the previous solution, the derivative of
	// Kepler's equation with respect to E.
	Slope float64

	// Eccentric is the previous eccentric anomaly.
	Eccentric float64

	// Valid reports whether the fields above hold a solution.
	Valid bool
}

// extrapolate returns the first-order estimate of E at (m, e) from the
// previous solution.
func (s State) extrapolate(m, e float64) float64 {
	delta := ((e-s.Eccentricity)*s.SinE + (m - s.MeanAnomaly)) / s.Slope
	return s.Eccentric + delta
}

// Solution is the outcome for a single element.
type Solution struct {
	// Eccentric is the eccentric anomaly E.
	Eccentric float64

	// True is the true anomaly f.
	True float64

	// Iterations is the number of Newton steps evaluated (0 for circular orbits).
	Iterations int

	// Converged is false when the iteration budget ran out first.
	Converged bool

	// Circular is true when the circular shortcut produced the result.
	Circular bool

	// WarmStarted is true when the initial guess came from the previous element.
	WarmStarted bool
}

// Stats aggregates per-element diagnostics over a solved sequence.
type Stats struct {
	Elements     int `json:"elements"`
	Circular     int `json:"circular"`
	WarmStarts   int `json:"warm_starts"`
	NonConverged int `json:"non_converged"`
	Iterations   int `json:"iterations"`
}

func (s *Stats) record(sol Solution) {
	s.Elements++
	s.Iterations += sol.Iterations
	if sol.Circular {
		s.Circular++
	}
	if sol.WarmStarted {
		s.WarmStarts++
	}
	if !sol.Converged {
		s.NonConverged++
	}
}

// Merge returns the element-wise sum of two Stats.
func (s Stats) Merge(other Stats) Stats {
	return Stats{
		Elements:     s.Elements + other.Elements,
		Circular:     s.Circular + other.Circular,
		WarmStarts:   s.WarmStarts + other.WarmStarts,
		NonConverged: s.NonConverged + other.NonConverged,
		Iterations:   s.Iterations + other.Iterations,
	}
}

// Output is a set of caller-owned destination buffers. Eccentric and True
// must have the input length; Converged is optional and skipped when nil.
type Output struct {
	Eccentric []float64
	True      []float64
	Converged []bool
}

// Slice returns the sub-output covering [start, end).
func (o Output) Slice(start, end int) Output {
	out := Output{
		Eccentric: o.Eccentric[start:end],
		True:      o.True[start:end],
	}
	if o.Converged != nil {
		out.Converged = o.Converged[start:end]
	}
	return out
}

func (o Output) check(n int) error {
	if len(o.Eccentric) != n || len(o.True) != n {
		return fmt.Errorf("%w: want %d, got eccentric=%d true=%d",
			ErrOutputLength, n, len(o.Eccentric), len(o.True))
	}
	if o.Converged != nil && len(o.Converged) != n {
		return fmt.Errorf("%w: want %d, got converged=%d", ErrOutputLength, n, len(o.Converged))
	}
	return nil
}

// NewOutput allocates buffers for n elements, including the Converged flags.
func NewOutput(n int) Output {
	return Output{
		Eccentric: make([]float64, n),
		True:      make([]float64, n),
		Converged: make([]bool, n),
	}
}

// Result is the freshly allocated output of Solve.
type Result struct {
	Output

	// Stats summarizes the pass.
	Stats Stats
}

// Len returns the number of solved elements.
func (r *Result) Len() int {
	return len(r.Eccentric)
}
