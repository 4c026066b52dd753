package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROCKTALK_DIR", dir)

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8501", cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dir, "chat_database.db"), cfg.Database.Connection)
	assert.Equal(t, filepath.Join(dir, "logs", "rocktalk.log"), cfg.App.LogFilePath)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestParseAuthRequiresSecrets(t *testing.T) {
	t.Setenv("ROCKTALK_DIR", t.TempDir())
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Parse()
	assert.Error(t, err)

	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.Auth.Enabled)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".rocktalk"), expandHome("~/.rocktalk"))
	assert.Equal(t, "/var/lib/rocktalk", expandHome("/var/lib/rocktalk"))
}
