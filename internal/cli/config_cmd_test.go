package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigInit(t *testing.T) {
	home := setupTestHome(t)

	out, err := runCLI(t, nil, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(home, "config.yaml"))
	assert.FileExists(t, filepath.Join(home, "config.yaml"))

	_, err = runCLI(t, nil, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, nil, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigGet(t *testing.T) {
	home := setupTestHome(t)
	writeFile(t, home, "config.yaml", "solver:\n  max_iterations: 77\n  tolerance: 1e-9\n")

	out, err := runCLI(t, nil, "config", "get", "solver.max_iterations")
	require.NoError(t, err)
	assert.Equal(t, "77", strings.TrimSpace(out))

	out, err = runCLI(t, nil, "config", "get", "cache")
	require.NoError(t, err)
	assert.Contains(t, out, "ttl_seconds:")

	_, err = runCLI(t, nil, "config", "get", "solver.nope")
	require.Error(t, err)

	_, err = runCLI(t, nil, "config", "get")
	require.Error(t, err)
}

func TestConfigGet_EnvOverride(t *testing.T) {
	setupTestHome(t)
	t.Setenv("KEPLER_TOLERANCE", "1e-6")

	out, err := runCLI(t, nil, "config", "get", "solver.tolerance")
	require.NoError(t, err)
	assert.Equal(t, "1e-06", strings.TrimSpace(out))
}

func TestConfigList(t *testing.T) {
	setupTestHome(t)

	out, err := runCLI(t, nil, "config", "list")
	require.NoError(t, err)
	for _, section := range []string{"solver:", "output:", "logging:", "cache:"} {
		assert.Contains(t, out, section)
	}

	out, err = runCLI(t, nil, "config", "list", "--format", "json")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Contains(t, decoded, "solver")

	_, err = runCLI(t, nil, "config", "list", "--format", "toml")
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	home := setupTestHome(t)

	out, err := runCLI(t, nil, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Max iterations: 2000")

	writeFile(t, home, "config.yaml", "solver:\n  max_iterations: 0\n  tolerance: 1e-10\noutput:\n  default_format: xml\n")
	_, err = runCLI(t, nil, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations")
	assert.Contains(t, err.Error(), "default_format")
}
