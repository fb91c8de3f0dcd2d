package batch

import (
	"sync"
	"time"
)

const percentMultiplier = 100

// Progress tracks completed partitions and elements. It is safe for
// concurrent use; a ProgressCallback may be invoked from several goroutines
// during ProcessConcurrent.
type Progress struct {
	totalElements   int
	doneElements    int
	totalPartitions int
	donePartitions  int
	partitionSize   int
	started         time.Time
	updated         time.Time

	mu sync.RWMutex
}

// NewProgress creates a tracker for totalElements split into totalPartitions.
func NewProgress(totalElements, totalPartitions, partitionSize int) *Progress {
	now := time.Now()
	return &Progress{
		totalElements:   totalElements,
		totalPartitions: totalPartitions,
		partitionSize:   partitionSize,
		started:         now,
		updated:         now,
	}
}

// AddProcessed records one finished partition of n elements.
func (p *Progress) AddProcessed(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.doneElements += n
	p.donePartitions++
	p.updated = time.Now()
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percent()
}

// IsComplete reports whether every element has been processed.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doneElements >= p.totalElements
}

// EstimatedTimeRemaining extrapolates the elapsed time per element.
// It returns 0 until the first partition finishes.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.doneElements == 0 {
		return 0
	}
	perElement := time.Since(p.started) / time.Duration(p.doneElements)
	return perElement * time.Duration(p.totalElements-p.doneElements)
}

// Snapshot returns a copy of the current state.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.started)
	var rate float64
	if s := elapsed.Seconds(); s > 0 {
		rate = float64(p.doneElements) / s
	}

	return ProgressSnapshot{
		TotalElements:     p.totalElements,
		ElementsDone:      p.doneElements,
		TotalPartitions:   p.totalPartitions,
		PartitionsDone:    p.donePartitions,
		PartitionSize:     p.partitionSize,
		StartTime:         p.started,
		LastUpdateTime:    p.updated,
		PercentComplete:   p.percent(),
		ElapsedTime:       elapsed,
		ElementsPerSecond: rate,
	}
}

// ProgressSnapshot is an immutable copy of a Progress.
type ProgressSnapshot struct {
	TotalElements     int
	ElementsDone      int
	TotalPartitions   int
	PartitionsDone    int
	PartitionSize     int
	StartTime         time.Time
	LastUpdateTime    time.Time
	PercentComplete   float64
	ElapsedTime       time.Duration
	ElementsPerSecond float64
}

// percent must be called with mu held.
func (p *Progress) percent() float64 {
	if p.totalElements == 0 {
		return 0
	}
	return float64(p.doneElements) / float64(p.totalElements) * percentMultiplier
}
