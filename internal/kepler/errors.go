package kepler

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by the solver. Compare with errors.Is.
var (
	// ErrDimensionMismatch indicates that the mean anomaly and eccentricity
	// sequences have different lengths. It is detected before any element
	// is processed.
	ErrDimensionMismatch = constError("dimension mismatch")

	// ErrInvalidEccentricity indicates an eccentricity outside [0, 1),
	// including NaN.
	ErrInvalidEccentricity = constError("eccentricity must be 0 <= e < 1")

	// ErrInvalidConfig indicates a non-positive iteration bound or a
	// negative (or NaN) tolerance.
	ErrInvalidConfig = constError("invalid solver configuration")

	// ErrOutputLength indicates caller supplied output buffers whose length
	// does not match the input length.
	ErrOutputLength = constError("output buffer length does not match input length")
)

// EccentricityError reports the first element whose eccentricity failed
// validation. Processing stops at Index; outputs at and after Index are not
// written.
type EccentricityError struct {
	Index int
	Value float64
}

func (e *EccentricityError) Error() string {
	return fmt.Sprintf("element %d: %s (got %v)", e.Index, ErrInvalidEccentricity, e.Value)
}

// Unwrap lets errors.Is match ErrInvalidEccentricity.
func (e *EccentricityError) Unwrap() error {
	return ErrInvalidEccentricity
}
