package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// EnvHome overrides the configuration directory.
const EnvHome = "KEPLER_HOME"

// defaultDirName is the configuration directory under the user's home.
const defaultDirName = ".kepler"

// global is the process-wide configuration, built lazily by GetGlobalConfig.
//
//nolint:gochecknoglobals // Singleton shared by every command of one CLI run.
var global struct {
	mu  sync.Mutex
	cfg *Config
}

// GetGlobalConfig returns the process configuration, building it with New
// on first use. Callers may adjust the returned value (flag overlays); the
// change is visible to every later caller.
func GetGlobalConfig() *Config {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.cfg == nil {
		global.cfg = New()
	}
	return global.cfg
}

// ResetGlobalConfigForTest drops the process configuration so the next
// GetGlobalConfig re-reads the file and environment.
func ResetGlobalConfigForTest() {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.cfg = nil
}

// GetConfigDir returns the kepler configuration directory: $KEPLER_HOME,
// or ~/.kepler.
func GetConfigDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultDirName), nil
}

// EnsureConfigDir creates the configuration directory when missing.
func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %q: %w", dir, err)
	}
	return nil
}

// EnsureLogDir creates the parent directory of the configured log file.
// Without a log file it does nothing.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	return nil
}
