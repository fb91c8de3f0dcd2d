package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/kepler/internal/engine"
	"github.com/rshade/kepler/internal/engine/cache"
	"github.com/rshade/kepler/internal/kepler"
)

// configFileName is the name of the configuration file inside the config directory.
const configFileName = "config.yaml"

// Supported output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// DefaultPrecision is the number of decimals shown in table output.
const DefaultPrecision = 10

// validOutputFormats lists the accepted output.default_format values.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var validOutputFormats = []string{FormatTable, FormatJSON, FormatCSV}

// Config is the kepler configuration file model.
type Config struct {
	Solver  SolverConfig  `yaml:"solver"  json:"solver"`
	Output  OutputConfig  `yaml:"output"  json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Cache   CacheConfig   `yaml:"cache"   json:"cache"`

	// configPath is where Save writes; not serialized.
	configPath string
}

// SolverConfig controls the Kepler solver and how batches are executed.
type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"      json:"tolerance"`
	WarmStart     bool    `yaml:"warm_start"     json:"warm_start"`

	// PartitionSize splits a batch into independently solved, cold-started
	// partitions. 0 solves the whole batch in one sequential pass; -1 uses
	// the engine's default partition size.
	PartitionSize int `yaml:"partition_size" json:"partition_size"`

	// Concurrency bounds how many partitions are solved at once. 0 means
	// runtime.NumCPU().
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// KeplerConfig converts the solver section into the solver's own configuration.
func (s SolverConfig) KeplerConfig() kepler.Config {
	return kepler.Config{
		MaxIterations:    s.MaxIterations,
		Tolerance:        s.Tolerance,
		DisableWarmStart: !s.WarmStart,
	}
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"          json:"level"`
	Format string `yaml:"format"         json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// CacheConfig controls the solved-batch cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"             json:"enabled"`
	Directory  string `yaml:"directory,omitempty" json:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"         json:"ttl_seconds"`
	MaxSizeMB  int    `yaml:"max_size_mb"         json:"max_size_mb"`
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			MaxIterations: kepler.DefaultMaxIterations,
			Tolerance:     kepler.DefaultTolerance,
			WarmStart:     true,
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: cache.DefaultTTLSeconds,
			MaxSizeMB:  cache.DefaultCacheMaxSizeMB,
		},
	}
}

// New returns the effective configuration: defaults, overlaid with the
// config file when present, overlaid with KEPLER_* environment variables.
// Problems reading the file or the environment are logged and skipped.
func New() *Config {
	cfg := Default()
	log := GetLogger()

	dir, err := GetConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("cannot resolve config directory, using defaults")
	} else {
		cfg.configPath = filepath.Join(dir, configFileName)
		if loadErr := cfg.loadFile(cfg.configPath); loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
			log.Warn().Err(loadErr).Str("path", cfg.configPath).Msg("ignoring unreadable config file")
		}
	}

	if envErr := ApplyEnv(cfg); envErr != nil {
		log.Warn().Err(envErr).Msg("ignoring invalid KEPLER_* environment overrides")
	}

	return cfg
}

// Load reads the configuration file at path on top of the defaults.
// Unlike New it fails on a missing or malformed file.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// ConfigPath returns the file Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath overrides the file Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section and joins all problems found.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Solver.KeplerConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("solver: %w", err))
	}
	if c.Solver.PartitionSize < engine.AutoPartitionSize {
		errs = append(errs, fmt.Errorf("solver: partition_size must be >= 0, or -1 for the default size, got %d",
			c.Solver.PartitionSize))
	}
	if c.Solver.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("solver: concurrency must be >= 0, got %d", c.Solver.Concurrency))
	}

	if !slices.Contains(validOutputFormats, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output: default_format must be one of %s, got %q",
			strings.Join(validOutputFormats, ", "), c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > 17 {
		errs = append(errs, fmt.Errorf("output: precision must be between 0 and 17, got %d", c.Output.Precision))
	}

	if c.Cache.Enabled {
		if _, err := cache.NewTTLConfig(c.Cache.TTLSeconds); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
		if c.Cache.MaxSizeMB < 0 {
			errs = append(errs, fmt.Errorf("cache: max_size_mb must be >= 0, got %d", c.Cache.MaxSizeMB))
		}
	}

	return errors.Join(errs...)
}

// CacheDir returns the configured cache directory, defaulting to
// <config dir>/cache.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// Get returns the value at a dotted key such as "solver.tolerance".
func (c *Config) Get(key string) (interface{}, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}

	var tree map[string]interface{}
	if err = yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	var node interface{} = tree
	for _, part := range strings.Split(key, ".") {
		section, ok := node.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
		node, ok = section[part]
		if !ok {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
	}
	return node, nil
}
