package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/kepler/internal/config"
	"github.com/rshade/kepler/internal/engine/cache"
	"github.com/rshade/kepler/pkg/version"
)

const bytesPerKB = 1024

// newFileStore opens the configured cache directory with the given TTL.
func newFileStore(cfg *config.Config, ttlSeconds int) (*cache.FileStore, error) {
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	return cache.NewFileStore(cache.Options{
		Directory:  dir,
		Enabled:    true,
		TTLSeconds: ttlSeconds,
		MaxSizeMB:  cfg.Cache.MaxSizeMB,
		Version:    version.GetVersion(),
	})
}

// NewCacheClearCmd creates the cache clear command.
func NewCacheClearCmd() *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached results",
		Example: `  # Remove every cached result
  kepler cache clear

  # Remove only expired or unreadable entries
  kepler cache clear --expired`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := newFileStore(cfg, cfg.Cache.TTLSeconds)
			if err != nil {
				return err
			}

			var removed int
			if expiredOnly {
				removed, err = store.CleanupExpired()
			} else {
				removed, err = store.Clear()
			}
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			p := message.NewPrinter(language.English)
			cmd.Print(p.Sprintf("Removed %d cache entries from %s\n", removed, store.Directory()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired or unreadable entries")

	return cmd
}

// NewCacheStatsCmd creates the cache stats command.
func NewCacheStatsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := newFileStore(cfg, cfg.Cache.TTLSeconds)
			if err != nil {
				return err
			}
			stats, err := store.Stats()
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			case "table":
				return printCacheStats(cmd, cfg, stats)
			default:
				return errors.New("unsupported output format: " + output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")

	return cmd
}

func printCacheStats(cmd *cobra.Command, cfg *config.Config, stats cache.Stats) error {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // Column padding.

	enabled := "yes"
	if !cfg.Cache.Enabled {
		enabled = "no (solve does not read or write entries)"
	}
	limit := "unlimited"
	if cfg.Cache.MaxSizeMB > 0 {
		limit = p.Sprintf("%d MB", cfg.Cache.MaxSizeMB)
	}

	_, _ = fmt.Fprintf(w, "Directory:\t%s\n", stats.Directory)
	_, _ = fmt.Fprintf(w, "Enabled:\t%s\n", enabled)
	_, _ = fmt.Fprintf(w, "Entries:\t%s\n", p.Sprintf("%d", stats.Entries))
	_, _ = fmt.Fprintf(w, "Expired:\t%s\n", p.Sprintf("%d", stats.Expired))
	_, _ = fmt.Fprintf(w, "Size:\t%s\n", p.Sprintf("%.1f KB", float64(stats.Bytes)/bytesPerKB))
	_, _ = fmt.Fprintf(w, "Size limit:\t%s\n", limit)
	_, _ = fmt.Fprintf(w, "TTL:\t%s\n", cache.FormatDuration(stats.TTL))
	return w.Flush()
}
