package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/kepler/internal/config"
	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/engine/batch"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (file, KEPLER_* environment variables
and --config overlay) and reports every problem found:

- solver: max_iterations >= 1, tolerance >= 0, partition_size >= 0 (or -1 for
  the default size), concurrency >= 0
- output: default_format is table, json or csv; precision between 0 and 17
- cache: ttl_seconds within the accepted range, max_size_mb >= 0`,
		Example: `  # Validate current configuration
  kepler config validate

  # Validate and show detailed information
  kepler config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Max iterations: %d\n", cfg.Solver.MaxIterations)
	cmd.Printf("  Tolerance: %g\n", cfg.Solver.Tolerance)
	cmd.Printf("  Warm start: %t\n", cfg.Solver.WarmStart)
	switch {
	case cfg.Solver.PartitionSize == engine.AutoPartitionSize:
		cmd.Printf("  Partition size: auto, %d (concurrency %d)\n", batch.DefaultPartitionSize, cfg.Solver.Concurrency)
	case cfg.Solver.PartitionSize > 0:
		cmd.Printf("  Partition size: %d (concurrency %d)\n", cfg.Solver.PartitionSize, cfg.Solver.Concurrency)
	default:
		cmd.Println("  Partitioning: off (one sequential pass)")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: enabled (ttl %ds, max %d MB)\n", cfg.Cache.TTLSeconds, cfg.Cache.MaxSizeMB)
	} else {
		cmd.Println("  Cache: disabled")
	}
}
