package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rshade/kepler/internal/engine/batch"
	"github.com/rshade/kepler/internal/kepler"
)

// AutoPartitionSize requests partitioned execution with
// batch.DefaultPartitionSize.
const AutoPartitionSize = -1

// ErrNilRequest is returned when Solve is called without a request.
var ErrNilRequest = errors.New("solve request cannot be nil")

// Request describes one batch solve.
type Request struct {
	// MeanAnomaly and Eccentricity are the paired inputs, in radians and
	// dimensionless respectively.
	MeanAnomaly  []float64
	Eccentricity []float64

	// Solver holds the Newton iteration settings.
	Solver kepler.Config

	// PartitionSize splits the batch into independent cold-started
	// partitions. 0, or a size covering the whole batch, solves it in a
	// single sequential pass with warm starts throughout. AutoPartitionSize
	// picks batch.DefaultPartitionSize.
	PartitionSize int

	// Concurrency bounds the partitions solved at once. 0 means
	// runtime.NumCPU(); 1 solves the partitions in order on the calling
	// goroutine.
	Concurrency int

	// SkipCache bypasses both cache lookup and cache write.
	SkipCache bool
}

// Len returns the number of mean anomalies in the request.
func (r *Request) Len() int {
	return len(r.MeanAnomaly)
}

// Validate checks the execution settings. Input data is validated by the
// solver itself.
func (r *Request) Validate() error {
	if err := r.Solver.Validate(); err != nil {
		return err
	}
	if r.PartitionSize < AutoPartitionSize {
		return fmt.Errorf("%w: partition size must be >= 0 or auto, got %d", kepler.ErrInvalidConfig, r.PartitionSize)
	}
	if r.Concurrency < 0 {
		return fmt.Errorf("%w: concurrency must be >= 0, got %d", kepler.ErrInvalidConfig, r.Concurrency)
	}
	return nil
}

// partitionSize resolves AutoPartitionSize.
func (r *Request) partitionSize() int {
	if r.PartitionSize == AutoPartitionSize {
		return batch.DefaultPartitionSize
	}
	return r.PartitionSize
}

// partitioned reports whether the request should be split.
func (r *Request) partitioned() bool {
	size := r.partitionSize()
	return size > 0 && size < r.Len()
}

// Response is the outcome of Solve.
type Response struct {
	Result  *kepler.Result
	Summary Summary

	// CacheHit is true when Result was read from the cache.
	CacheHit bool

	// Partitions is the number of independently solved partitions; 1 for
	// a sequential pass, 0 for an empty batch or a cache hit.
	Partitions int

	Duration time.Duration
}
