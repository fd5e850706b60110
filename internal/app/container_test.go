package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/infrastructure/history"
)

func buildTestContainer(t *testing.T, configYAML string) (*Container, *bytes.Buffer, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	cfgPath := filepath.Join(home, ".phoenix", "config.yaml")
	if configYAML != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(cfgPath), 0o755))
		require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o600))
	}

	var out bytes.Buffer
	c, err := BuildContainer(context.Background(), Options{
		ConfigPath: cfgPath,
		Stdin:      strings.NewReader(""),
		Stdout:     &out,
		Version:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, &out, home
}

func TestBuildContainer_FirstRunWritesDefaults(t *testing.T) {
	c, _, home := buildTestContainer(t, "")

	assert.FileExists(t, filepath.Join(home, ".phoenix", "config.yaml"))
	assert.FileExists(t, filepath.Join(home, ".phoenix", "guardrail.yaml"))
	assert.Equal(t, filepath.Join(home, ".phoenix", "settings.json"), c.Settings.Path())
	assert.Equal(t, domain.DefaultSettings(), c.Settings.Current())
	assert.NotNil(t, c.Bridge)
	assert.NotNil(t, c.DoctorService)
	assert.Greater(t, len(c.Engine.Commands()), 50)
}

func TestBuildContainer_DispatchRecordsHistory(t *testing.T) {
	c, out, _ := buildTestContainer(t, "")
	ctx := context.Background()

	res := c.Engine.Dispatch(ctx, "hello", domain.OriginCLI)
	require.Equal(t, domain.DispatchSuccess, res.Status)
	assert.Contains(t, out.String(), "Phoenix: ")

	res = c.Engine.Dispatch(ctx, "do a barrel roll", domain.OriginCLI)
	assert.Equal(t, domain.DispatchUnmatched, res.Status)

	records, err := c.HistoryStore.Records(10, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "do a barrel roll", records[0].Input)
	assert.Equal(t, "hello", records[1].Input)

	recent := c.Engine.RecentCommands()
	require.Len(t, recent, 2)
	assert.Equal(t, "hello", recent[0].Command)
}

func TestBuildContainer_FileHistoryAndSilentSpeaker(t *testing.T) {
	c, out, home := buildTestContainer(t, `
speech:
  input: console
  output: none
history:
  backend: file
security:
  enabled: true
  rules_file: ~/.phoenix/rules.yaml
execution:
  dry_run: true
`)

	_, isFile := c.HistoryStore.(*history.FileStore)
	assert.True(t, isFile)
	assert.FileExists(t, filepath.Join(home, ".phoenix", "rules.yaml"))

	res := c.Engine.Dispatch(context.Background(), "open notepad", domain.OriginCLI)
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	assert.Empty(t, out.String())
}

func TestBuildContainer_InvalidConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	cfgPath := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("history:\n  retention_days: -3\n"), 0o600))

	_, err := BuildContainer(context.Background(), Options{ConfigPath: cfgPath, Stdin: strings.NewReader("")})
	assert.Error(t, err)
}
