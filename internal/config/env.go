package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides mirrors the settings that can be overridden from the
// environment. Pointer fields distinguish "unset" from a zero value.
type envOverrides struct {
	MaxIterations *int     `env:"KEPLER_MAX_ITERATIONS"`
	Tolerance     *float64 `env:"KEPLER_TOLERANCE"`
	WarmStart     *bool    `env:"KEPLER_WARM_START"`
	PartitionSize *int     `env:"KEPLER_PARTITION_SIZE"`
	Concurrency   *int     `env:"KEPLER_CONCURRENCY"`

	OutputFormat string `env:"KEPLER_OUTPUT_FORMAT"`
	Precision    *int   `env:"KEPLER_OUTPUT_PRECISION"`

	LogLevel  string `env:"KEPLER_LOG_LEVEL"`
	LogFormat string `env:"KEPLER_LOG_FORMAT"`
	LogFile   string `env:"KEPLER_LOG_FILE"`

	CacheEnabled *bool  `env:"KEPLER_CACHE_ENABLED"`
	CacheDir     string `env:"KEPLER_CACHE_DIR"`
	CacheTTL     *int   `env:"KEPLER_CACHE_TTL_SECONDS"`
	CacheMaxSize *int   `env:"KEPLER_CACHE_MAX_SIZE_MB"`
}

// ApplyEnv overlays KEPLER_* environment variables onto cfg. A variable that
// fails to parse leaves cfg untouched and returns the error.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setIf(&cfg.Solver.MaxIterations, o.MaxIterations)
	setIf(&cfg.Solver.Tolerance, o.Tolerance)
	setIf(&cfg.Solver.WarmStart, o.WarmStart)
	setIf(&cfg.Solver.PartitionSize, o.PartitionSize)
	setIf(&cfg.Solver.Concurrency, o.Concurrency)

	setIfNotEmpty(&cfg.Output.DefaultFormat, o.OutputFormat)
	setIf(&cfg.Output.Precision, o.Precision)

	setIfNotEmpty(&cfg.Logging.Level, o.LogLevel)
	setIfNotEmpty(&cfg.Logging.Format, o.LogFormat)
	setIfNotEmpty(&cfg.Logging.File, o.LogFile)

	setIf(&cfg.Cache.Enabled, o.CacheEnabled)
	setIfNotEmpty(&cfg.Cache.Directory, o.CacheDir)
	setIf(&cfg.Cache.TTLSeconds, o.CacheTTL)
	setIf(&cfg.Cache.MaxSizeMB, o.CacheMaxSize)

	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
