package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hsmx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logLevel: debug
journal: /tmp/from-file.db
stagedCommit: true
`), 0o644))
	t.Setenv("HSMX_JOURNAL", "/tmp/from-env.db")
	t.Setenv("HSMX_CASCADE_RESULTS", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "default survives")
	assert.Equal(t, "/tmp/from-env.db", cfg.Journal, "env overrides file")
	assert.True(t, cfg.StagedCommit)
	assert.True(t, cfg.CascadeResults)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("HSMX_STAGED_COMMIT", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg.LogFormat = "JSON"
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
