package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/kepler/internal/config"
	"github.com/rshade/kepler/internal/logging"
	"github.com/rshade/kepler/internal/telemetry"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is a terminal file.
func isWriterTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the kepler CLI.
// It wires up configuration overlays, logging, tracing and the solve, plot,
// config and cache subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		shutdown   telemetry.ShutdownFunc
		overlayCfg string
	)

	cmd := &cobra.Command{
		Use:     "kepler",
		Short:   "Batch solver for Kepler's equation",
		Long:    "kepler: solve M = E - e*sin(E) for batches of mean anomalies and eccentricities",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if overlayCfg != "" {
				if err := config.ShallowMergeYAML(config.GetGlobalConfig(), overlayCfg); err != nil {
					return fmt.Errorf("applying --config: %w", err)
				}
			}

			result := setupLogging(cmd)
			logResult = &result

			var err error
			shutdown, err = telemetry.Setup(cmd.Context(), ver)
			if err != nil {
				logger.Warn().Ctx(cmd.Context()).Err(err).Msg("tracing disabled")
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if shutdown != nil {
				if err := shutdown(cmd.Context()); err != nil {
					logger.Warn().Ctx(cmd.Context()).Err(err).Msg("flushing spans failed")
				}
			}
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&overlayCfg, "config", "",
		"YAML file whose top-level sections replace those of the loaded configuration")
	cmd.AddCommand(NewSolveCmd(), NewPlotCmd(), newConfigCmd(), newCacheCmd())

	return cmd
}

const rootCmdExample = `  # Solve a batch read from a JSON file
  kepler solve --input orbits.json

  # Solve 1000 evenly spaced mean anomalies at e = 0.3
  kepler solve --linspace 1000 --ecc 0.3 --output csv

  # Browse the results interactively
  kepler solve --input orbits.csv --tui

  # Plot E and f against M
  kepler plot --linspace 720 --ecc 0.9 --out anomalies.png

  # Initialize configuration
  kepler config init

  # Inspect the result cache
  kepler cache stats`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Result cache commands"}
	cmd.AddCommand(NewCacheClearCmd(), NewCacheStatsCmd())
	return cmd
}
