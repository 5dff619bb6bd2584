package efa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RTMONITOR_EFA_BASE_URL", "")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.efa-bw.de/rtMonitor", config.BaseURL)
	assert.Equal(t, DefaultConfig().DefaultParams, config.DefaultParams)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("RTMONITOR_EFA_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "rtmonitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUrl: https://efa.example.org/mobidata-bw
defaultParams:
  mode: trip
  language: en
`), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://efa.example.org/mobidata-bw", config.BaseURL)
	assert.Equal(t, "trip", config.DefaultParams["mode"])
	assert.Equal(t, "en", config.DefaultParams["language"])
	assert.Equal(t, 1, config.DefaultParams["stateless"], "built-in defaults survive")
}

func TestLoadConfigEmptyFile(t *testing.T) {
	t.Setenv("RTMONITOR_EFA_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("RTMONITOR_EFA_BASE_URL", "http://localhost:9000/efa")

	path := filepath.Join(t.TempDir(), "rtmonitor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: https://efa.example.org\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/efa", config.BaseURL)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: [unclosed"), 0o644))

	_, err = LoadConfig(path)
	assert.Error(t, err)
}
