package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Partition size bounds.
const (
	// DefaultPartitionSize is used when a caller asks for partitioning
	// without choosing a size.
	DefaultPartitionSize = 4096

	// MinPartitionSize is the smallest accepted partition.
	MinPartitionSize = 1

	// MaxPartitionSize is the largest accepted partition.
	MaxPartitionSize = 1_000_000
)

// Common partitioning errors.
var (
	ErrInvalidPartitionSize = errors.New("partition size must be between 1 and 1000000")
	ErrNilCallback          = errors.New("partition callback cannot be nil")
	ErrEmptyRange           = errors.New("range cannot be empty")
)

// Partition is the half-open index range [Start, End) handled by one callback.
type Partition struct {
	Index int
	Start int
	End   int
}

// Len returns the number of elements in the partition.
func (p Partition) Len() int {
	return p.End - p.Start
}

// Func processes one partition.
type Func func(ctx context.Context, part Partition) error

// ProgressCallback is invoked after each partition completes.
type ProgressCallback func(progress *Progress)

// Processor runs a Func over every partition of an index range.
type Processor struct {
	size       int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given partition size.
func NewProcessor(size int) (*Processor, error) {
	if size < MinPartitionSize || size > MaxPartitionSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPartitionSize, size)
	}
	return &Processor{size: size}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultPartitionSize.
func NewProcessorWithDefaults() *Processor {
	return &Processor{size: DefaultPartitionSize}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor) WithProgressCallback(callback ProgressCallback) *Processor {
	p.onProgress = callback
	return p
}

// PartitionSize returns the configured partition size.
func (p *Processor) PartitionSize() int {
	return p.size
}

// Partitions returns the partitions covering [0, total).
func (p *Processor) Partitions(total int) []Partition {
	if total <= 0 {
		return nil
	}
	count := (total + p.size - 1) / p.size
	parts := make([]Partition, count)
	for i := range count {
		start := i * p.size
		parts[i] = Partition{Index: i, Start: start, End: min(start+p.size, total)}
	}
	return parts
}

// Process runs fn over the partitions of [0, total) in order and stops on
// the first error.
func (p *Processor) Process(ctx context.Context, total int, fn Func) error {
	parts, err := p.prepare(total, fn)
	if err != nil {
		return err
	}

	progress := NewProgress(total, len(parts), p.size)
	for _, part := range parts {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(ctx, part); err != nil {
			return fmt.Errorf("partition %d failed: %w", part.Index, err)
		}
		p.report(progress, part)
	}
	return nil
}

// ProcessConcurrent runs fn over the partitions of [0, total) with at most
// limit partitions in flight. A limit below 1 means runtime.NumCPU(). The
// first error cancels the context passed to the remaining callbacks and is
// returned once every started callback has finished.
func (p *Processor) ProcessConcurrent(ctx context.Context, total int, fn Func, limit int) error {
	parts, err := p.prepare(total, fn)
	if err != nil {
		return err
	}
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	progress := NewProgress(total, len(parts), p.size)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, part := range parts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(gctx, part); err != nil {
				return fmt.Errorf("partition %d failed: %w", part.Index, err)
			}
			p.report(progress, part)
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (p *Processor) prepare(total int, fn Func) ([]Partition, error) {
	if total <= 0 {
		return nil, ErrEmptyRange
	}
	if fn == nil {
		return nil, ErrNilCallback
	}
	return p.Partitions(total), nil
}

func (p *Processor) report(progress *Progress, part Partition) {
	progress.AddProcessed(part.Len())
	if p.onProgress != nil {
		p.onProgress(progress)
	}
}
