package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins:
    - http://localhost:3000
storage:
  database_path: /tmp/test.db
engine:
  window_days: 5
  min_matched: 0.8
  min_uncertain: 0.5
observability:
  logging:
    level: debug
    format: json
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 5, cfg.Engine.WindowDays)
	assert.Equal(t, 0.8, cfg.Engine.MinMatched)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("STATEMENT_DB_PATH", "/data/expanded.db")
	path := writeConfig(t, `
storage:
  database_path: ${STATEMENT_DB_PATH}
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/expanded.db", cfg.Storage.DatabasePath)
}

func TestLoad_MissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidYAMLReturnsError(t *testing.T) {
	path := writeConfig(t, "server: [not: valid")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "statement_backend.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 3, cfg.Engine.WindowDays)
	assert.Equal(t, 0.70, cfg.Engine.MinMatched)
	assert.Equal(t, 0.45, cfg.Engine.MinUncertain)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv_ReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENGINE_WINDOW_DAYS", "5")
	t.Setenv("ENGINE_MIN_MATCHED", "0.85")
	t.Setenv("LOG_FORMAT", "json")

	cfg := LoadFromEnv()

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Engine.WindowDays)
	assert.Equal(t, 0.85, cfg.Engine.MinMatched)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadOrEnvWithPath_FallsBackToEnv(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestMatcherConfig_ZeroFieldsFallBackToDefaults(t *testing.T) {
	cfg := EngineConfig{}.MatcherConfig()

	assert.Equal(t, 3, cfg.WindowDays)
	assert.Equal(t, 0.70, cfg.MinMatched)
	assert.Equal(t, 0.45, cfg.MinUncertain)
}

func TestMatcherConfig_ClampsOutOfRangeValues(t *testing.T) {
	cfg := EngineConfig{WindowDays: 30, MinMatched: 2.0, MinUncertain: 0.9}.MatcherConfig()

	assert.Equal(t, 7, cfg.WindowDays)
	assert.Equal(t, 1.0, cfg.MinMatched)
	assert.Equal(t, 0.9, cfg.MinUncertain)
}
