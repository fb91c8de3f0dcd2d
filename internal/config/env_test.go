package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/kepler/internal/config"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("KEPLER_MAX_ITERATIONS", "12")
	t.Setenv("KEPLER_WARM_START", "false")
	t.Setenv("KEPLER_PARTITION_SIZE", "256")
	t.Setenv("KEPLER_OUTPUT_FORMAT", "csv")
	t.Setenv("KEPLER_LOG_LEVEL", "debug")
	t.Setenv("KEPLER_CACHE_ENABLED", "false")
	t.Setenv("KEPLER_CACHE_TTL_SECONDS", "120")

	cfg := config.Default()
	require.NoError(t, config.ApplyEnv(cfg))

	assert.Equal(t, 12, cfg.Solver.MaxIterations)
	assert.False(t, cfg.Solver.WarmStart)
	assert.True(t, cfg.Solver.KeplerConfig().DisableWarmStart)
	assert.Equal(t, 256, cfg.Solver.PartitionSize)
	assert.Equal(t, "csv", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 120, cfg.Cache.TTLSeconds)

	// Unset variables keep their defaults.
	assert.Equal(t, config.Default().Solver.Tolerance, cfg.Solver.Tolerance)
	assert.Equal(t, config.Default().Output.Precision, cfg.Output.Precision)
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	t.Setenv("KEPLER_TOLERANCE", "tiny")

	cfg := config.Default()
	err := config.ApplyEnv(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
	assert.Equal(t, config.Default().Solver, cfg.Solver)
}
