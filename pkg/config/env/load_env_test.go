package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ENCYC_DOTENV_PROBE=loaded\n"), 0o600))
	t.Setenv("ENV_PATH", path)
	t.Setenv("ENCYC_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("ENCYC_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv("local"))
	assert.Equal(t, "loaded", os.Getenv("ENCYC_DOTENV_PROBE"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, LoadDotEnv("local"))
	assert.NoError(t, LoadDotEnv("production"))
}

func TestLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, slog.LevelDebug, LogLevel())

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, slog.LevelWarn, LogLevel())

	t.Setenv("LOG_LEVEL", "chatty")
	assert.Equal(t, slog.LevelDebug, LogLevel())
}
