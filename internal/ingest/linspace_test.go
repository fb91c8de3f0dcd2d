package ingest_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/kepler/internal/ingest"
)

func TestLinspace(t *testing.T) {
	in, err := ingest.Linspace(5, -math.Pi, math.Pi, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 5, in.Len())
	assert.Equal(t, -math.Pi, in.MeanAnomaly[0])
	assert.Equal(t, math.Pi, in.MeanAnomaly[4])
	assert.InDelta(t, 0, in.MeanAnomaly[2], 1e-15)
	for _, e := range in.Eccentricity {
		assert.Equal(t, 0.3, e)
	}

	single, err := ingest.Linspace(1, 2, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, single.MeanAnomaly)
}

func TestLinspace_Errors(t *testing.T) {
	_, err := ingest.Linspace(0, 0, 1, 0.1)
	assert.ErrorIs(t, err, ingest.ErrInvalidCount)

	_, err = ingest.Linspace(3, math.NaN(), 1, 0.1)
	assert.Error(t, err)

	_, err = ingest.Linspace(3, 0, math.Inf(1), 0.1)
	assert.Error(t, err)
}
