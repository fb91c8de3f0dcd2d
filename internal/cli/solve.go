package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/kepler/internal/config"
	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/engine/batch"
	"github.com/rshade/kepler/internal/engine/cache"
	"github.com/rshade/kepler/internal/logging"
	"github.com/rshade/kepler/internal/render"
	"github.com/rshade/kepler/internal/tui"
)

// solveParams holds the flags of the solve command.
type solveParams struct {
	input         inputFlags
	output        string
	precision     int
	maxIterations int
	tolerance     float64
	noWarmStart   bool
	partitionSize string
	concurrency   int
	noCache       bool
	cacheTTL      string
	interactive   bool
}

// NewSolveCmd creates the "solve" command.
//
// Registered flags:
//   - --input / --format / --linspace / --ecc / --start / --stop: batch source
//   - --output: table, json or csv (default from configuration)
//   - --max-iterations, --tolerance, --no-warm-start: solver overrides
//   - --partition-size, --concurrency: partitioned execution
//   - --no-cache, --cache-ttl: result cache control
//   - --tui: browse the results interactively
func NewSolveCmd() *cobra.Command {
	var params solveParams

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve Kepler's equation for a batch of elements",
		Long: `Solve M = E - e*sin(E) for every (M, e) pair of the batch and report the
eccentric anomaly E and the true anomaly f.

Elements are solved in order and each solution seeds the next one. With
--partition-size the batch is split into partitions that are solved
concurrently, each starting cold; "auto" picks the default size of 4096 and
--concurrency 1 solves the partitions one after another.

Exit codes: 1 on general failure, 2 on invalid input data (including an
eccentricity outside [0, 1)), 3 when the two sequences differ in length.`,
		Example: solveExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSolve(cmd, params)
		},
	}

	params.input.register(cmd)
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "Output format: table, json, or csv (default from config)")
	cmd.Flags().IntVar(&params.precision, "precision", -1, "Decimals shown in table output (default from config)")
	cmd.Flags().IntVar(&params.maxIterations, "max-iterations", 0, "Newton iteration limit per element")
	cmd.Flags().Float64Var(&params.tolerance, "tolerance", 0, "Newton step size treated as converged")
	cmd.Flags().BoolVar(&params.noWarmStart, "no-warm-start", false, "Start every element from E = M")
	cmd.Flags().StringVar(&params.partitionSize, "partition-size", "",
		`Split the batch into cold-started partitions of this size, or "auto" (0 = one sequential pass)`)
	cmd.Flags().IntVar(&params.concurrency, "concurrency", 0, "Partitions solved at once (0 = number of CPUs)")
	cmd.Flags().BoolVar(&params.noCache, "no-cache", false, "Bypass the result cache")
	cmd.Flags().StringVar(&params.cacheTTL, "cache-ttl", "", "Cache TTL for new entries, in seconds or as a duration (e.g. 30m)")
	cmd.Flags().BoolVar(&params.interactive, "tui", false, "Browse the results in an interactive table")

	return cmd
}

const solveExample = `  # Solve a JSON batch
  kepler solve --input orbits.json

  # Read CSV from stdin and write JSON
  cat orbits.csv | kepler solve --input - --format csv --output json

  # Sweep M over a full turn at e = 0.95 with a tighter tolerance
  kepler solve --linspace 3600 --ecc 0.95 --tolerance 1e-14

  # Large batch in partitions of 100000 on 4 workers
  kepler solve --input big.csv --partition-size 100000 --concurrency 4

  # Partition with the default size, one partition at a time
  kepler solve --input big.csv --partition-size auto --concurrency 1`

// executeSolve loads the batch, applies flag overrides to the configured
// solver settings, solves through the engine and renders the result.
func executeSolve(cmd *cobra.Command, params solveParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	req, err := buildSolveRequest(cmd, params, cfg)
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(firstNonEmpty(params.output, cfg.Output.DefaultFormat))
	if err != nil {
		return err
	}
	precision := cfg.Output.Precision
	if params.precision >= 0 {
		precision = params.precision
	}

	in, err := params.input.load(ctx, cmd.InOrStdin())
	if err != nil {
		return classifySolveError(err)
	}
	req.MeanAnomaly = in.MeanAnomaly
	req.Eccentricity = in.Eccentricity

	ttl := cfg.Cache.TTLSeconds
	if params.cacheTTL != "" {
		if ttl, err = cache.ParseTTL(params.cacheTTL); err != nil {
			return fmt.Errorf("--cache-ttl: %w", err)
		}
	}

	opts := []engine.Option{}
	if store := openStore(ctx, cfg, params.noCache, ttl); store != nil {
		opts = append(opts, engine.WithCache(store))
	}
	if req.PartitionSize != 0 {
		opts = append(opts, engine.WithProgress(func(pr *batch.Progress) {
			p := pr.Snapshot()
			log.Debug().Ctx(ctx).Str("operation", "solve").
				Int("partitions_done", p.PartitionsDone).
				Int("total_partitions", p.TotalPartitions).
				Float64("percent", p.PercentComplete).
				Msg("partition complete")
		}))
	}

	resp, err := engine.New(opts...).Solve(ctx, req)
	if err != nil {
		return classifySolveError(err)
	}

	rows := render.Rows(req.MeanAnomaly, req.Eccentricity, resp.Result)
	info := render.RunInfo{CacheHit: resp.CacheHit, Partitions: resp.Partitions, Duration: resp.Duration}

	if params.interactive {
		if params.output != "" && format != render.FormatTable {
			return errors.New("--tui cannot be combined with --output json or csv")
		}
		return tui.Run(ctx, tui.NewResultsModel(rows, resp.Summary, info))
	}

	out := cmd.OutOrStdout()
	if err = render.Results(out, format, rows, resp.Summary, precision); err != nil {
		return fmt.Errorf("rendering results: %w", err)
	}
	if format == render.FormatTable {
		_, _ = fmt.Fprintln(out)
		return render.Summary(out, resp.Summary, info, isWriterTerminal(out))
	}
	return nil
}

// buildSolveRequest starts from the configured solver section and applies
// every explicitly set flag on top.
func buildSolveRequest(cmd *cobra.Command, params solveParams, cfg *config.Config) (*engine.Request, error) {
	req := &engine.Request{
		Solver:        cfg.Solver.KeplerConfig(),
		PartitionSize: cfg.Solver.PartitionSize,
		Concurrency:   cfg.Solver.Concurrency,
		SkipCache:     params.noCache,
	}

	flags := cmd.Flags()
	if flags.Changed("max-iterations") {
		req.Solver.MaxIterations = params.maxIterations
	}
	if flags.Changed("tolerance") {
		req.Solver.Tolerance = params.tolerance
	}
	if flags.Changed("no-warm-start") {
		req.Solver.DisableWarmStart = params.noWarmStart
	}
	if flags.Changed("partition-size") {
		size, err := parsePartitionSize(params.partitionSize)
		if err != nil {
			return nil, err
		}
		req.PartitionSize = size
	}
	if flags.Changed("concurrency") {
		req.Concurrency = params.concurrency
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.PartitionSize > batch.MaxPartitionSize {
		return nil, fmt.Errorf("%w: got %d", batch.ErrInvalidPartitionSize, req.PartitionSize)
	}
	return req, nil
}

// openStore returns the configured result cache, or nil when caching is
// off or the store cannot be opened.
func openStore(ctx context.Context, cfg *config.Config, noCache bool, ttl int) engine.Store {
	if noCache || !cfg.Cache.Enabled {
		return nil
	}

	store, err := newFileStore(cfg, ttl)
	if err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Msg("cannot open cache, caching disabled")
		return nil
	}
	return store
}

// parsePartitionSize accepts "auto" or a non-negative element count.
func parsePartitionSize(value string) (int, error) {
	if value == "auto" {
		return engine.AutoPartitionSize, nil
	}
	size, err := strconv.Atoi(value)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("--partition-size: want a non-negative integer or \"auto\", got %q", value)
	}
	return size, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
