package ingest

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCount is returned when a generated input would be empty.
var ErrInvalidCount = errors.New("element count must be >= 1")

// Linspace generates n mean anomalies evenly spaced over [start, stop],
// endpoints included, all paired with eccentricity ecc. With n == 1 the
// single element is start.
func Linspace(n int, start, stop, ecc float64) (*Input, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	if math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("linspace bounds must be finite, got [%v, %v]", start, stop)
	}

	in := &Input{
		MeanAnomaly:  make([]float64, n),
		Eccentricity: make([]float64, n),
	}
	step := 0.0
	if n > 1 {
		step = (stop - start) / float64(n-1)
	}
	for i := range n {
		in.MeanAnomaly[i] = start + float64(i)*step
		in.Eccentricity[i] = ecc
	}
	if n > 1 {
		in.MeanAnomaly[n-1] = stop
	}
	return in, nil
}
