package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  consistency_level: 2\nlogging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Scheduler.ConsistencyLevel)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scheduler:\n  consistency_level: 2\n"), 0o644))

	t.Setenv("FTRMFF_CONSISTENCY_LEVEL", "3")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Scheduler.ConsistencyLevel)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
