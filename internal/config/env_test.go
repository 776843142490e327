package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvironment_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, k := range []string{"PORT", "CACHE_TTL", "DEFAULT_METHOD", "CORS_ALLOWED_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	env, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "8080", env.Port)
	assert.Equal(t, 24*time.Hour, env.CacheTTL)
	assert.Equal(t, "MWL", env.DefaultMethod)
	assert.Equal(t, "info", env.LogLevel)
	assert.Empty(t, env.AllowedOrigins)
}

func TestLoadEnvironment_FileAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("PRAYTIMES_TEST_FROM_FILE=1\nCACHE_TTL=1h\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("CACHE_TTL", "")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Cleanup(func() { _ = os.Unsetenv("PRAYTIMES_TEST_FROM_FILE") })

	env, err := LoadEnvironment()
	require.NoError(t, err)
	assert.Equal(t, "9090", env.Port)
	assert.Equal(t, ":9090", env.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.AllowedOrigins)
	assert.Equal(t, "1", os.Getenv("PRAYTIMES_TEST_FROM_FILE"))
}

func TestLoadEnvironment_Invalid(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	t.Setenv("CACHE_TTL", "forever")
	_, err := LoadEnvironment()
	assert.Error(t, err)

	t.Setenv("CACHE_TTL", "")
	t.Setenv("DEFAULT_METHOD", "Hanafi")
	_, err = LoadEnvironment()
	assert.Error(t, err)
}
