package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/kepler/internal/ingest"
	"github.com/rshade/kepler/internal/kepler"
)

func TestClassifySolveError(t *testing.T) {
	generic := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"eccentricity", &kepler.EccentricityError{Index: 4, Value: 2}, ExitCodeInvalidInput},
		{"dimension", fmt.Errorf("solve: %w", kepler.ErrDimensionMismatch), ExitCodeDimensionMismatch},
		{"malformed", fmt.Errorf("%w: bad", ingest.ErrMalformedInput), ExitCodeInvalidInput},
		{"count", ingest.ErrInvalidCount, ExitCodeInvalidInput},
		{"generic", generic, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySolveError(tt.err)
			var exitErr *ExitError
			if tt.wantCode == 0 {
				assert.False(t, errors.As(got, &exitErr))
				assert.Same(t, generic, got)
				return
			}
			assert.True(t, errors.As(got, &exitErr))
			assert.Equal(t, tt.wantCode, exitErr.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, classifySolveError(nil))
}
