package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", cfg.ConfigFormatVersion)
	assert.Equal(t, 5000, cfg.Bridge.Port)
	assert.Equal(t, domain.SpeechInputConsole, cfg.Speech.Input)
	assert.Equal(t, domain.HistoryBackendSQLite, cfg.History.Backend)
	assert.True(t, cfg.Security.Enabled)
	assert.True(t, filepath.IsAbs(cfg.SettingsFile))
	assert.NoError(t, cfg.ValidateConsistency())

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config should be written")
}

func TestLoadHydratesZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bridge:\n  port: 6100\n"), 0o600))

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6100, cfg.Bridge.Port)
	assert.Equal(t, domain.DefaultHistoryRetainDays, cfg.History.RetentionDays)
	assert.Equal(t, domain.SpeechOutputConsole, cfg.Speech.Output)
	assert.NotEmpty(t, cfg.Security.RulesFile)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bridge: [oops"), 0o600))

	_, err := NewFileLoader(path).Load(context.Background())
	assert.Error(t, err)
}

func TestPathHonoursEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, want)
	assert.Equal(t, want, NewFileLoader("").Path())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y"), ExpandPath("~/x/y"))
	assert.Equal(t, "/abs", ExpandPath("/abs"))
	assert.Equal(t, "", ExpandPath(""))
}
