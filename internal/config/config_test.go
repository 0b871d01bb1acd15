package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies the built-in defaults with no file and no
// environment.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "jiraqa.db", cfg.DB.Path)
	require.Equal(t, "data/seed.yaml", cfg.Data.SeedPath)
	require.Equal(t, "data/permissions.yaml", cfg.Data.PermissionsPath)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "admin", cfg.Identity.DefaultUser)
}

// TestLoadEnvOverrides verifies environment variables win over
// defaults and the config file.
func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
log:
  level: debug
transport:
  mode: http
`), 0o644))

	t.Setenv("JIRAQA_CONFIG_PATH", path)
	t.Setenv("JIRAQA_SERVER_PORT", "9999")
	t.Setenv("JIRAQA_DB_PATH", "/tmp/override.db")
	t.Setenv("JIRAQA_DEFAULT_USER", "sarah.chen")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port, "env beats file")
	require.Equal(t, "debug", cfg.Log.Level, "file beats default")
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "/tmp/override.db", cfg.DB.Path)
	require.Equal(t, "sarah.chen", cfg.Identity.DefaultUser)
}

// TestLoadInvalidPort verifies a malformed port is an error.
func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("JIRAQA_SERVER_PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}
