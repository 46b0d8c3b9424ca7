package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freshLoader returns a Loader backed by an isolated viper instance so tests
// do not leak state through the global viper.
func freshLoader() *Loader {
	return &Loader{v: viper.New()}
}

// chdir switches to dir for the test's duration, restoring the previous
// working directory on cleanup (t.Chdir requires go >= 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoaderDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := freshLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 0.20, cfg.Align.IoUThreshold, 1e-9)
	assert.Equal(t, "v1", cfg.Task.ModelVersion)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoaderWithFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "labelbridge.yaml")
	content := `
log_level: debug
align:
  iou_threshold: 0.4
server:
  port: 9999
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o600))

	cfg, err := freshLoader().LoadWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 0.4, cfg.Align.IoUThreshold, 1e-9)
	assert.Equal(t, 9999, cfg.Server.Port)
	// Untouched values keep their defaults.
	assert.Equal(t, "v1", cfg.Task.ModelVersion)
}

func TestLoaderWithMissingFile(t *testing.T) {
	_, err := freshLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoaderRejectsInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "labelbridge.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("align:\n  iou_threshold: 2.0\n"), 0o600))

	_, err := freshLoader().LoadWithFile(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoaderEnvironmentOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LABELBRIDGE_LOG_LEVEL", "warn")

	cfg, err := freshLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
