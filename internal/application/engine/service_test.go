package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/doeshing/phoenix-go/internal/application/actions"
	"github.com/doeshing/phoenix-go/internal/application/apptest"
	"github.com/doeshing/phoenix-go/internal/application/dispatch"
	"github.com/doeshing/phoenix-go/internal/application/engine"
	"github.com/doeshing/phoenix-go/internal/application/listener"
	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/application/session"
	"github.com/doeshing/phoenix-go/internal/application/settings"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
)

type silentInput struct {
	mics []domain.Microphone
	err  error
}

func (s silentInput) Capture(ctx context.Context, _, _ time.Duration) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Millisecond):
		return nil, domain.ErrNoSpeech
	}
}

func (s silentInput) Transcribe(context.Context, []byte, string) (string, error) {
	return "", domain.ErrNoSpeech
}

func (s silentInput) Microphones(context.Context) ([]domain.Microphone, error) {
	return s.mics, s.err
}

func newEngine(t *testing.T, store *apptest.SettingsStore, input silentInput) *engine.Service {
	t.Helper()
	log := logger.NewNop()
	rt := apptest.NewRuntime(nil)
	machine := session.NewMachine(rt, session.Options{BrowseRoot: "/"})
	reg := registry.New()
	require.NoError(t, actions.Register(reg, actions.Deps{Runtime: rt, Session: machine}))

	settingsSvc := settings.NewService(store, log)
	disp, err := dispatch.New(dispatch.Options{Registry: reg, Session: machine, Settings: settingsSvc, Logger: log})
	require.NoError(t, err)

	return &engine.Service{
		Dispatcher: disp,
		Listener:   listener.New(listener.Options{Input: input, Dispatcher: disp, Settings: settingsSvc, Logger: log}),
		Settings:   settingsSvc,
		Input:      input,
		Logger:     log,
	}
}

func TestEngine_StartStopIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)
	eng := newEngine(t, &apptest.SettingsStore{}, silentInput{})
	require.NoError(t, eng.Boot(context.Background()))
	defer eng.Close()

	assert.False(t, eng.Status().IsListening)
	assert.True(t, eng.Start().IsListening)
	assert.True(t, eng.Start().IsListening)
	assert.False(t, eng.Stop().IsListening)
	assert.False(t, eng.Stop().IsListening)
}

func TestEngine_AutoStart(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := domain.DefaultSettings()
	s.AutoStartListening = true
	eng := newEngine(t, &apptest.SettingsStore{Current: &s}, silentInput{})
	require.NoError(t, eng.Boot(context.Background()))
	defer eng.Close()

	assert.True(t, eng.Status().IsListening)
}

func TestEngine_UpdateSettingsReflectedInStatus(t *testing.T) {
	store := &apptest.SettingsStore{}
	eng := newEngine(t, store, silentInput{})
	require.NoError(t, eng.Boot(context.Background()))
	defer eng.Close()

	_, err := eng.UpdateSettings(context.Background(), map[string]interface{}{"wake_word": "hey pc"})
	require.NoError(t, err)
	assert.Equal(t, "hey pc", eng.Status().WakeWord)
	assert.Equal(t, 1, store.Saves)

	_, err = eng.UpdateSettings(context.Background(), map[string]interface{}{"wake_word": "computer"})
	require.NoError(t, err)
	assert.Equal(t, "computer", eng.Status().WakeWord)

	res := eng.Dispatch(context.Background(), "computer mute", domain.OriginAPI)
	assert.Equal(t, "mute", res.Normalized)
	assert.Equal(t, []domain.RecentCommand{{Command: "mute", Timestamp: res.Timestamp}}, eng.RecentCommands())
}

func TestEngine_Microphones(t *testing.T) {
	eng := newEngine(t, &apptest.SettingsStore{}, silentInput{mics: []domain.Microphone{{ID: 0, Name: "Built-in"}}})
	mics, err := eng.Microphones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Microphone{{ID: 0, Name: "Built-in"}}, mics)

	eng = newEngine(t, &apptest.SettingsStore{}, silentInput{err: errors.New("no backend")})
	mics, err = eng.Microphones(context.Background())
	assert.Error(t, err)
	assert.Empty(t, mics)
}

func TestEngine_BootRequiresDependencies(t *testing.T) {
	eng := &engine.Service{}
	assert.Error(t, eng.Boot(context.Background()))
}
