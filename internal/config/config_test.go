package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CONFIG_FILE", "LISTEN_ADDR", "PROXIED_ADDR", "SQLITE_FILE", "SERVER_STATUS", "MYSQL_DSN"} {
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadFromEnvUsesDefaultListenAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROXIED_ADDR", "mc.example.com:25565")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultListenAddr, cfg.ListenAddr)
	require.Equal(t, "mc.example.com:25565", cfg.ProxiedAddr)
}

func TestLoadFromEnvMissingProxiedAddrFails(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr":"0.0.0.0:25566","proxied_addr":"backend:25565"}`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:25566", cfg.ListenAddr)
	require.Equal(t, "backend:25565", cfg.ProxiedAddr)
}

func TestLoadFromFileMissingProxiedAddrFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
