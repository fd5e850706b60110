package logger_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/pkg/logger"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "warn", Console: &buf})

	log.Info("hidden", nil)
	log.Warn("shown", map[string]interface{}{"origin": "voice"})
	log.Error("failed", errors.New("boom"), nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "voice")
	assert.Contains(t, out, "boom")
}

func TestLogger_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Verbose: true, Console: &buf})
	log.Debug("listening", nil)
	assert.Contains(t, buf.String(), "listening")
}

func TestNop(t *testing.T) {
	log := logger.NewNop()
	log.Error("ignored", errors.New("x"), map[string]interface{}{"a": 1})
}

func TestLogger_FileKeepsConsoleQuiet(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "phoenix.log")
	log := logger.New(logger.Options{Level: "info", File: file, Console: &buf})

	log.Info("dispatched", map[string]interface{}{"trigger": "open"})
	log.Warn("guardrail blocked", nil)
	require.NoError(t, log.Close())

	console := buf.String()
	assert.NotContains(t, console, "dispatched")
	assert.Contains(t, console, "guardrail blocked")

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "dispatched")
	assert.Contains(t, string(raw), "guardrail blocked")
}

func TestLogger_FileVerboseEchoesEverything(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{File: filepath.Join(t.TempDir(), "phoenix.log"), Verbose: true, Console: &buf})
	defer log.Close()

	log.Debug("capturing", nil)
	assert.Contains(t, buf.String(), "capturing")
}
