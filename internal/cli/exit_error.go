package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/kepler/internal/ingest"
	"github.com/rshade/kepler/internal/kepler"
)

// Process exit codes.
const (
	ExitCodeError             = 1
	ExitCodeInvalidInput      = 2
	ExitCodeDimensionMismatch = 3
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifySolveError attaches an exit code to errors from loading or solving
// a batch. Other errors are returned unchanged and exit with ExitCodeError.
func classifySolveError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, kepler.ErrDimensionMismatch):
		return &ExitError{Code: ExitCodeDimensionMismatch, Err: err}
	case errors.Is(err, kepler.ErrInvalidEccentricity),
		errors.Is(err, ingest.ErrMalformedInput),
		errors.Is(err, ingest.ErrInvalidCount):
		return &ExitError{Code: ExitCodeInvalidInput, Err: fmt.Errorf("invalid input: %w", err)}
	default:
		return err
	}
}
