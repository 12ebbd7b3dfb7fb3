package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "PORT", "STORAGE_BACKEND", "DATABASE_URL",
		"DATABASE_NAME", "POSTGRES_DSN", "USERS_FILE", "SESSIONS_FILE",
		"EVENTS_FILE", "REDIS_URL", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, BackendMongo, cfg.StorageBackend)
	assert.Equal(t, "focustracker", cfg.DatabaseName)
	assert.Empty(t, cfg.DatabaseURL) // allowed: /test reports the degraded store
	assert.Equal(t, 30, cfg.ActivityRateLimitMin)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", BackendFile)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoadYAMLUnderEnv(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9001\n  log_level: debug\n"), 0644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9002") // env beats file

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9002, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STORAGE_BACKEND", "dynamo")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRequiresPostgresDSN(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STORAGE_BACKEND", BackendPostgres)

	_, err := Load()
	assert.Error(t, err)
}
