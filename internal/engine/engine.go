package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rshade/kepler/internal/engine/batch"
	"github.com/rshade/kepler/internal/engine/cache"
	"github.com/rshade/kepler/internal/kepler"
	"github.com/rshade/kepler/internal/logging"
)

const tracerName = "github.com/rshade/kepler/internal/engine"

// Store is the subset of the cache used by the engine.
type Store interface {
	Get(key string) (*cache.Entry, error)
	Set(key string, data json.RawMessage) error
}

// Engine runs solve requests: cache lookup, sequential or partitioned
// execution, statistics and tracing.
type Engine struct {
	store      Store
	onProgress batch.ProgressCallback
	tracer     trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache enables result caching through store.
func WithCache(store Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithProgress registers a callback invoked as partitions complete.
func WithProgress(cb batch.ProgressCallback) Option {
	return func(e *Engine) { e.onProgress = cb }
}

// New creates an Engine. Without WithCache every request is solved.
func New(opts ...Option) *Engine {
	e := &Engine{tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Solve validates req, returns a cached result when one exists, and solves
// the batch otherwise.
//
// Errors from the solver are returned unchanged so callers can match
// kepler.ErrDimensionMismatch, kepler.ErrInvalidConfig and
// *kepler.EccentricityError. In partitioned mode eccentricities are checked
// for the whole batch before any partition starts, so the reported index is
// always the first invalid element of the batch.
func (e *Engine) Solve(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	log := logging.FromContext(ctx)
	start := time.Now()

	ctx, span := e.tracer.Start(ctx, "engine.Solve", trace.WithAttributes(
		attribute.Int("kepler.elements", req.Len()),
		attribute.Int("kepler.partition_size", req.PartitionSize),
		attribute.Int("kepler.max_iterations", req.Solver.MaxIterations),
		attribute.Float64("kepler.tolerance", req.Solver.Tolerance),
	))
	defer span.End()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "solve").
		Int("elements", req.Len()).
		Int("partition_size", req.PartitionSize).
		Int("concurrency", req.Concurrency).
		Bool("warm_start", !req.Solver.DisableWarmStart).
		Msg("starting solve")

	resp, err := e.solve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Msg("solve failed")
		return nil, err
	}

	resp.Summary = Summarize(req.MeanAnomaly, req.Eccentricity, resp.Result)
	resp.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Bool("kepler.cache_hit", resp.CacheHit),
		attribute.Int("kepler.partitions", resp.Partitions),
		attribute.Int("kepler.iterations", resp.Summary.Iterations),
		attribute.Int("kepler.non_converged", resp.Summary.NonConverged),
	)

	event := log.Info()
	if resp.Summary.NonConverged > 0 {
		event = log.Warn()
	}
	event.
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "solve").
		Int("elements", resp.Summary.Elements).
		Int("partitions", resp.Partitions).
		Int("iterations", resp.Summary.Iterations).
		Int("non_converged", resp.Summary.NonConverged).
		Float64("max_residual", resp.Summary.MaxResidual).
		Bool("cache_hit", resp.CacheHit).
		Dur("duration", resp.Duration).
		Msg("solve complete")

	return resp, nil
}

func (e *Engine) solve(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	useCache := e.store != nil && !req.SkipCache
	var key string
	if useCache {
		key = cache.KeyFor(req.MeanAnomaly, req.Eccentricity, req.Solver)
		if result, ok := e.lookup(ctx, key, req.Len()); ok {
			return &Response{Result: result, CacheHit: true}, nil
		}
	}

	var (
		result     *kepler.Result
		partitions int
		err        error
	)
	if req.partitioned() {
		result, partitions, err = e.solvePartitioned(ctx, req)
	} else {
		result, err = kepler.Solve(req.MeanAnomaly, req.Eccentricity, req.Solver)
		if req.Len() > 0 {
			partitions = 1
		}
	}
	if err != nil {
		return nil, err
	}

	if useCache {
		e.save(ctx, key, result)
	}
	return &Response{Result: result, Partitions: partitions}, nil
}

// solvePartitioned cold-starts every partition and solves them on a bounded
// worker pool, or in order when Concurrency is 1. Partitions write disjoint
// ranges of one output.
func (e *Engine) solvePartitioned(ctx context.Context, req *Request) (*kepler.Result, int, error) {
	if err := kepler.Validate(req.MeanAnomaly, req.Eccentricity); err != nil {
		return nil, 0, err
	}

	proc, err := newProcessor(req.PartitionSize)
	if err != nil {
		return nil, 0, err
	}
	if e.onProgress != nil {
		proc.WithProgressCallback(e.onProgress)
	}

	parts := proc.Partitions(req.Len())
	out := kepler.NewOutput(req.Len())
	stats := make([]kepler.Stats, len(parts))

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "engine").
		Int("partition_size", proc.PartitionSize()).
		Int("partitions", len(parts)).
		Msg("partitioning batch")

	solvePart := func(_ context.Context, part batch.Partition) error {
		_, st, solveErr := kepler.SolveInto(
			out.Slice(part.Start, part.End),
			req.MeanAnomaly[part.Start:part.End],
			req.Eccentricity[part.Start:part.End],
			req.Solver,
			kepler.State{},
		)
		stats[part.Index] = st
		return solveErr
	}
	if req.Concurrency == 1 {
		err = proc.Process(ctx, req.Len(), solvePart)
	} else {
		err = proc.ProcessConcurrent(ctx, req.Len(), solvePart, req.Concurrency)
	}
	if err != nil {
		return nil, 0, err
	}

	var total kepler.Stats
	for _, st := range stats {
		total = total.Merge(st)
	}
	return &kepler.Result{Output: out, Stats: total}, len(parts), nil
}

func newProcessor(size int) (*batch.Processor, error) {
	if size == AutoPartitionSize {
		return batch.NewProcessorWithDefaults(), nil
	}
	return batch.NewProcessor(size)
}

func (e *Engine) lookup(ctx context.Context, key string, n int) (*kepler.Result, bool) {
	log := logging.FromContext(ctx)

	entry, err := e.store.Get(key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheNotFound) {
			log.Debug().Ctx(ctx).Str("component", "engine").Err(err).Msg("cache miss")
		}
		return nil, false
	}

	var result kepler.Result
	if err = json.Unmarshal(entry.Data, &result); err != nil || result.Len() != n {
		log.Warn().Ctx(ctx).Str("component", "engine").Err(err).Msg("ignoring corrupt cache entry")
		return nil, false
	}
	return &result, true
}

func (e *Engine) save(ctx context.Context, key string, result *kepler.Result) {
	log := logging.FromContext(ctx)

	data, err := json.Marshal(result)
	if err != nil {
		// NaN or Inf inputs produce values JSON cannot encode.
		log.Debug().Ctx(ctx).Str("component", "engine").Err(err).Msg("result not cacheable")
		return
	}
	if err = e.store.Set(key, data); err != nil {
		log.Warn().Ctx(ctx).Str("component", "engine").Err(err).Msg("failed to write cache entry")
	}
}
