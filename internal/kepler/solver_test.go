package kepler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// residualBound is the largest |E - e*sin(E) - M| a converged element can
// have: the stopping rule bounds the Newton step |r/(1-e*cos(E))|, not r.
func residualBound(cfg Config, e float64) float64 {
	return cfg.Tolerance*(1+e) + 1e-15
}

func testConfig() Config {
	return Config{MaxIterations: 50, Tolerance: 1e-10}
}

func TestSolve_ConcreteScenario(t *testing.T) {
	cfg := testConfig()
	meanAnomaly := []float64{0.0, math.Pi / 2, math.Pi}
	ecc := []float64{0.0, 0.5, 0.5}

	res, err := Solve(meanAnomaly, ecc, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, res.Len())

	// Circular element.
	assert.Equal(t, 0.0, res.Eccentric[0])
	assert.Equal(t, 0.0, res.True[0])

	// E - 0.5*sin(E) = pi/2.
	m1 := NormalizeAngle(meanAnomaly[1])
	assert.LessOrEqual(t, math.Abs(Residual(res.Eccentric[1], 0.5, m1)), residualBound(cfg, 0.5))
	assert.InDelta(t, 2.0, res.Eccentric[1], 0.05)
	assert.InDelta(t, res.Eccentric[1], EccentricFromTrue(res.True[1], 0.5), 1e-9)

	// M = pi wraps to -pi where 1 + cos(E) vanishes.
	m2 := NormalizeAngle(meanAnomaly[2])
	assert.Equal(t, -math.Pi, m2)
	assert.LessOrEqual(t, math.Abs(Residual(res.Eccentric[2], 0.5, m2)), residualBound(cfg, 0.5))
	assert.False(t, math.IsNaN(res.True[2]))
	assert.InDelta(t, math.Pi, math.Abs(res.True[2]), 1e-9)

	assert.Equal(t, []bool{true, true, true}, res.Converged)
	assert.Equal(t, Stats{Elements: 3, Circular: 1, WarmStarts: 1, Iterations: res.Stats.Iterations}, res.Stats)
	assert.Positive(t, res.Stats.Iterations)
}

func TestSolve_ResidualBound(t *testing.T) {
	cfg := Config{MaxIterations: 200, Tolerance: 1e-10}

	for _, e := range []float64{0.01, 0.1, 0.3, 0.5, 0.7, 0.9, 0.99, 0.999} {
		var meanAnomaly, ecc []float64
		for m := -10.0; m <= 10.0; m += 0.37 {
			meanAnomaly = append(meanAnomaly, m)
			ecc = append(ecc, e)
		}

		res, err := Solve(meanAnomaly, ecc, cfg)
		require.NoError(t, err)
		assert.Zero(t, res.Stats.NonConverged, "e=%v", e)

		for i, m := range meanAnomaly {
			r := Residual(res.Eccentric[i], e, NormalizeAngle(m))
			assert.LessOrEqual(t, math.Abs(r), residualBound(cfg, e), "e=%v M=%v", e, m)
			assert.InDelta(t, res.Eccentric[i], EccentricFromTrue(res.True[i], e), 1e-8, "e=%v M=%v", e, m)
		}
	}
}

func TestSolve_CircularIdentity(t *testing.T) {
	cfg := testConfig()
	meanAnomaly := []float64{0, 1, -1, 3.5, -7.25, 1e4, math.Pi}
	for _, e := range []float64{0, cfg.Tolerance / 2, cfg.Tolerance} {
		ecc := make([]float64, len(meanAnomaly))
		for i := range ecc {
			ecc[i] = e
		}

		res, err := Solve(meanAnomaly, ecc, cfg)
		require.NoError(t, err)
		for i, m := range meanAnomaly {
			want := NormalizeAngle(m)
			assert.Equal(t, want, res.Eccentric[i])
			assert.Equal(t, want, res.True[i])
		}
		assert.Equal(t, len(meanAnomaly), res.Stats.Circular)
		assert.Zero(t, res.Stats.Iterations)
	}
}

func TestStep_ToleranceBoundary(t *testing.T) {
	cfg := testConfig()

	sol, next, err := Step(1.0, cfg.Tolerance, State{}, cfg)
	require.NoError(t, err)
	assert.True(t, sol.Circular)
	assert.Zero(t, sol.Iterations)
	assert.False(t, next.Valid)

	sol, next, err = Step(1.0, math.Nextafter(cfg.Tolerance, 1), State{}, cfg)
	require.NoError(t, err)
	assert.False(t, sol.Circular)
	assert.GreaterOrEqual(t, sol.Iterations, 1)
	assert.True(t, next.Valid)
}

func TestStep_CircularResetsState(t *testing.T) {
	cfg := testConfig()

	_, state, err := Step(0.5, 0.3, State{}, cfg)
	require.NoError(t, err)
	require.True(t, state.Valid)

	_, state, err = Step(0.6, 0, state, cfg)
	require.NoError(t, err)
	assert.Equal(t, State{}, state)

	sol, _, err := Step(0.7, 0.3, state, cfg)
	require.NoError(t, err)
	assert.False(t, sol.WarmStarted)
}

func TestSolve_Rejection(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name      string
		ecc       []float64
		wantIndex int
	}{
		{name: "exactly one", ecc: []float64{0.1, 1.0}, wantIndex: 1},
		{name: "hyperbolic", ecc: []float64{1.5, 0.1}, wantIndex: 0},
		{name: "negative", ecc: []float64{0.1, -0.01}, wantIndex: 1},
		{name: "NaN", ecc: []float64{math.NaN(), 0.1}, wantIndex: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Solve([]float64{0.1, 0.2}, tt.ecc, cfg)
			require.ErrorIs(t, err, ErrInvalidEccentricity)
			assert.Nil(t, res)

			var eccErr *EccentricityError
			require.ErrorAs(t, err, &eccErr)
			assert.Equal(t, tt.wantIndex, eccErr.Index)
		})
	}
}

func TestSolve_DimensionMismatch(t *testing.T) {
	res, err := Solve([]float64{0, 1, 2}, []float64{0.1, 0.2}, testConfig())
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Nil(t, res)
}

func TestSolveInto_DimensionMismatchLeavesOutputs(t *testing.T) {
	out := Output{Eccentric: []float64{7, 7, 7}, True: []float64{7, 7, 7}}
	_, _, err := SolveInto(out, []float64{0, 1, 2}, []float64{0.1, 0.2}, testConfig(), State{})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, []float64{7, 7, 7}, out.Eccentric)
	assert.Equal(t, []float64{7, 7, 7}, out.True)
}

func TestSolveInto_StopsAtFirstInvalid(t *testing.T) {
	out := Output{Eccentric: []float64{42, 42, 42}, True: []float64{42, 42, 42}}
	_, stats, err := SolveInto(out, []float64{0.1, 0.2, 0.3}, []float64{0.1, 2, 0.2}, testConfig(), State{})

	var eccErr *EccentricityError
	require.ErrorAs(t, err, &eccErr)
	assert.Equal(t, 1, eccErr.Index)
	assert.Equal(t, 1, stats.Elements)
	assert.Equal(t, 42.0, out.Eccentric[2])
	assert.Equal(t, 42.0, out.True[2])
}

func TestSolveInto_OutputLength(t *testing.T) {
	cfg := testConfig()
	in := []float64{0.1, 0.2}

	_, _, err := SolveInto(Output{Eccentric: make([]float64, 1), True: make([]float64, 2)}, in, in, cfg, State{})
	require.ErrorIs(t, err, ErrOutputLength)

	_, _, err = SolveInto(Output{
		Eccentric: make([]float64, 2),
		True:      make([]float64, 2),
		Converged: make([]bool, 3),
	}, in, in, cfg, State{})
	require.ErrorIs(t, err, ErrOutputLength)

	_, stats, err := SolveInto(Output{Eccentric: make([]float64, 2), True: make([]float64, 2)}, in, in, cfg, State{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Elements)
}

func TestSolveInto_ContinuationAcrossCalls(t *testing.T) {
	cfg := testConfig()
	var meanAnomaly, ecc []float64
	for i := range 40 {
		meanAnomaly = append(meanAnomaly, -2+0.1*float64(i))
		ecc = append(ecc, 0.2+0.01*float64(i))
	}

	whole, err := Solve(meanAnomaly, ecc, cfg)
	require.NoError(t, err)

	out := NewOutput(len(meanAnomaly))
	state, first, err := SolveInto(out.Slice(0, 15), meanAnomaly[:15], ecc[:15], cfg, State{})
	require.NoError(t, err)
	_, second, err := SolveInto(out.Slice(15, 40), meanAnomaly[15:], ecc[15:], cfg, state)
	require.NoError(t, err)

	assert.Equal(t, whole.Eccentric, out.Eccentric)
	assert.Equal(t, whole.True, out.True)
	assert.Equal(t, whole.Stats, first.Merge(second))
}

func TestSolve_WarmStartEquivalence(t *testing.T) {
	warmCfg := Config{MaxIterations: 200, Tolerance: 1e-10}
	coldCfg := warmCfg
	coldCfg.DisableWarmStart = true

	var meanAnomaly, ecc []float64
	for i := range 300 {
		meanAnomaly = append(meanAnomaly, -12+0.08*float64(i))
		ecc = append(ecc, 0.45+0.4*math.Sin(0.1*float64(i)))
	}
	// A circular element in the middle forces a cold restart.
	ecc[150] = 0

	warm, err := Solve(meanAnomaly, ecc, warmCfg)
	require.NoError(t, err)
	cold, err := Solve(meanAnomaly, ecc, coldCfg)
	require.NoError(t, err)

	assert.Positive(t, warm.Stats.WarmStarts)
	assert.Zero(t, cold.Stats.WarmStarts)
	assert.Zero(t, warm.Stats.NonConverged)
	assert.Zero(t, cold.Stats.NonConverged)

	for i := range meanAnomaly {
		assert.InDelta(t, cold.Eccentric[i], warm.Eccentric[i], 1e-8, "element %d", i)
		assert.InDelta(t, cold.True[i], warm.True[i], 1e-8, "element %d", i)
	}
}

func TestSolve_WarmStartSavesIterations(t *testing.T) {
	cfg := testConfig()
	cold := cfg
	cold.DisableWarmStart = true

	var meanAnomaly, ecc []float64
	for i := range 300 {
		meanAnomaly = append(meanAnomaly, 0.01*float64(i))
		ecc = append(ecc, 0.5)
	}

	warmRes, err := Solve(meanAnomaly, ecc, cfg)
	require.NoError(t, err)
	coldRes, err := Solve(meanAnomaly, ecc, cold)
	require.NoError(t, err)

	assert.Less(t, warmRes.Stats.Iterations, coldRes.Stats.Iterations)
}

func TestSolve_NonConvergenceIsSilent(t *testing.T) {
	cfg := Config{MaxIterations: 1, Tolerance: 1e-12}

	res, err := Solve([]float64{1.0}, []float64{0.9}, cfg)
	require.NoError(t, err)
	assert.False(t, res.Converged[0])
	assert.Equal(t, 1, res.Stats.NonConverged)
	assert.Equal(t, 1, res.Stats.Iterations)
	assert.False(t, math.IsNaN(res.Eccentric[0]))
	assert.False(t, math.IsNaN(res.True[0]))
}

func TestSolve_Empty(t *testing.T) {
	res, err := Solve(nil, nil, testConfig())
	require.NoError(t, err)
	assert.Zero(t, res.Len())
	assert.Equal(t, Stats{}, res.Stats)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "zero tolerance", cfg: Config{MaxIterations: 1}},
		{name: "zero iterations", cfg: Config{Tolerance: 1e-9}, wantErr: true},
		{name: "negative tolerance", cfg: Config{MaxIterations: 5, Tolerance: -1}, wantErr: true},
		{name: "NaN tolerance", cfg: Config{MaxIterations: 5, Tolerance: math.NaN()}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := Solve([]float64{0}, []float64{0.1}, Config{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestStep_InvalidEccentricity(t *testing.T) {
	prev := State{Valid: true, Slope: 1}
	_, state, err := Step(0.1, 1, prev, testConfig())
	require.ErrorIs(t, err, ErrInvalidEccentricity)
	assert.Equal(t, prev, state)
}

func TestBracket(t *testing.T) {
	assert.Equal(t, 1.5, bracket(9, 1, 0.5))
	assert.Equal(t, 0.5, bracket(-9, 1, 0.5))
	assert.Equal(t, 1.2, bracket(1.2, 1, 0.5))
	assert.Equal(t, 1.0, bracket(math.NaN(), 1, 0.5))
}
