package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/alertsnap/internal/profile"
)

func TestLoadDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "alertsnap")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.DirExists(t, dir)

	assert.Equal(t, "dark", cfg.Preferences.Theme)
	assert.Equal(t, "", cfg.Preferences.DefaultConnection)
	assert.Equal(t, SecretStoreFile, cfg.Preferences.SecretStore)
	assert.Equal(t, 10*time.Second, cfg.Preferences.ConnectTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 2, cfg.Logging.RetentionDays)

	assert.Equal(t, filepath.Join(dir, "connections.json"), cfg.ConnectionsPath())
	assert.Equal(t, filepath.Join(dir, "queries.json"), cfg.QueriesPath())
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir())
	assert.IsType(t, profile.FileSecrets{}, cfg.Secrets())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.Preferences.Theme = "light"
	cfg.Preferences.DefaultConnection = "prod"
	cfg.Preferences.SecretStore = SecretStoreKeyring
	cfg.Preferences.ConnectTimeout = 3 * time.Second
	cfg.Logging.RetentionDays = 7
	require.NoError(t, Save(cfg))
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.Preferences.Theme)
	assert.Equal(t, "prod", loaded.Preferences.DefaultConnection)
	assert.Equal(t, 3*time.Second, loaded.Preferences.ConnectTimeout)
	assert.Equal(t, 7, loaded.Logging.RetentionDays)
	assert.IsType(t, profile.KeyringSecrets{}, loaded.Secrets())
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ALERTSNAP_PREFERENCES_THEME", "light")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Preferences.Theme)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ALERTSNAP_LOGGING_LEVEL=debug\n"), 0o600))
	t.Setenv("ALERTSNAP_LOGGING_LEVEL", "")
	os.Unsetenv("ALERTSNAP_LOGGING_LEVEL")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("preferences: [unclosed\n"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/custom-alertsnap")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-alertsnap", dir)
}

func TestDefaultConnection(t *testing.T) {
	cfg := &Config{}
	_, ok := DefaultConnection(cfg, nil)
	assert.False(t, ok)

	profiles := []profile.Profile{{Name: "dev"}, {Name: "prod"}}

	p, ok := DefaultConnection(cfg, profiles)
	require.True(t, ok)
	assert.Equal(t, "dev", p.Name)

	cfg.Preferences.DefaultConnection = "prod"
	p, _ = DefaultConnection(cfg, profiles)
	assert.Equal(t, "prod", p.Name)

	cfg.Preferences.DefaultConnection = "gone"
	p, _ = DefaultConnection(cfg, profiles)
	assert.Equal(t, "dev", p.Name)
}

func TestSetAndGet(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		key   string
		value string
	}{
		{"preferences.theme", "light"},
		{"preferences.default_connection", "prod"},
		{"preferences.secret_store", SecretStoreKeyring},
		{"preferences.connect_timeout", "30s"},
		{"logging.level", "debug"},
		{"logging.retention_days", "7"},
	}

	for _, tt := range tests {
		require.NoError(t, cfg.Set(tt.key, tt.value), tt.key)

		got, err := cfg.Get(tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.value, got, tt.key)
	}

	assert.Len(t, Keys, len(tests))
	assert.Equal(t, 30*time.Second, cfg.Preferences.ConnectTimeout)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	bad := map[string]string{
		"preferences.theme":           "blue",
		"preferences.secret_store":    "vault",
		"preferences.connect_timeout": "soon",
		"logging.level":               "loud",
		"logging.retention_days":      "0",
		"preferences.font_size":       "12",
	}

	for key, value := range bad {
		assert.Error(t, cfg.Set(key, value), key)
	}

	assert.Equal(t, "dark", cfg.Preferences.Theme)
	assert.Equal(t, 2, cfg.Logging.RetentionDays)

	_, err = cfg.Get("preferences.font_size")
	assert.Error(t, err)
}
