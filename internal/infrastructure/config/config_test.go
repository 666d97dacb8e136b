package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no stray config.yaml or .env is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, int64(10<<20), cfg.Server.BodyLimitBytes)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "combined", cfg.Storage.Layout)
	assert.False(t, cfg.OTLP.Enabled)
	assert.Equal(t, "cafe-inventory-api", cfg.OTLP.ServiceName)
	assert.Equal(t, "info", cfg.OTLP.LogLevel)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.True(t, cfg.OTLP.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadConfig_FileLayers(t *testing.T) {
	dir := inTempDir(t)

	yamlConfig := "server:\n  port: \"7000\"\nstorage:\n  layout: split\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlConfig), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATA_DIR=/var/lib/cafe\nSERVER_PORT=7100\n"), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "split", cfg.Storage.Layout)
	assert.Equal(t, "/var/lib/cafe", cfg.Storage.Dir)
	assert.Equal(t, "7100", cfg.Server.Port, ".env overrides the YAML file")

	t.Setenv("SERVER_PORT", "7200")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "7200", cfg.Server.Port, "process environment wins")
}

func TestLoadConfig_CustomConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("otlp:\n  servicename: kiosk\n"), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "kiosk", cfg.OTLP.ServiceName)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "unknown layout", env: map[string]string{"STORAGE_LAYOUT": "sharded"}},
		{name: "non numeric port", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "redis without address", env: map[string]string{"STORAGE_DRIVER": "redis", "REDIS_ADDR": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
