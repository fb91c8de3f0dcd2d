package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/rshade/kepler/internal/kepler"
)

// Summary holds aggregate diagnostics for a solved batch.
type Summary struct {
	kepler.Stats

	// MeanIterations is the average Newton step count per element.
	MeanIterations float64 `json:"mean_iterations"`

	// MaxResidual is the largest |E - e*sin(E) - M| over the batch, with M
	// wrapped into [-pi, pi).
	MaxResidual float64 `json:"max_residual"`

	// MaxCorrection is the largest |E - M|, which never exceeds e.
	MaxCorrection float64 `json:"max_correction"`
}

// Summarize computes a Summary for result against its inputs.
func Summarize(meanAnomaly, ecc []float64, result *kepler.Result) Summary {
	s := Summary{Stats: result.Stats}
	n := result.Len()
	if n == 0 {
		return s
	}

	residuals := make([]float64, n)
	corrections := make([]float64, n)
	for i := range n {
		m := kepler.NormalizeAngle(meanAnomaly[i])
		residuals[i] = math.Abs(kepler.Residual(result.Eccentric[i], ecc[i], m))
		corrections[i] = math.Abs(result.Eccentric[i] - m)
	}

	s.MaxResidual = floats.Max(residuals)
	s.MaxCorrection = floats.Max(corrections)
	s.MeanIterations = float64(result.Stats.Iterations) / float64(n)
	return s
}
