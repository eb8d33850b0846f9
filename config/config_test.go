package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGeneratesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coreresolver.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:53", cfg.Bind)
	assert.Equal(t, "intelligent", cfg.Strategy)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coreresolver.toml")

	content := "version = \"1.0.0\"\nbind = \"127.0.0.1:5300\"\nstrategy = \"least_latency\"\nmaxretries = 2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5300", cfg.Bind)
	assert.Equal(t, "least_latency", cfg.Strategy)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestDurationUnmarshalText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("5s")))
	assert.Equal(t, 5, int(d.Duration.Seconds()))
}
