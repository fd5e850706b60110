// Package engine is the control surface shared by the bridge and the CLI.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/phoenix-go/internal/application/dispatch"
	"github.com/doeshing/phoenix-go/internal/application/listener"
	"github.com/doeshing/phoenix-go/internal/application/settings"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Service exposes start, stop, dispatch, status, recent commands, settings and
// microphone enumeration.
type Service struct {
	Dispatcher *dispatch.Service
	Listener   *listener.Service
	Settings   *settings.Service
	Input      ports.SpeechInput
	Logger     ports.Logger
}

func (s *Service) ready() error {
	if s.Dispatcher == nil || s.Listener == nil || s.Settings == nil || s.Input == nil || s.Logger == nil {
		return errors.New("engine.Service dependencies not satisfied")
	}
	return nil
}

// Start begins listening. Calling it while listening is a no-op.
func (s *Service) Start() domain.Status {
	if s.Listener.Start() {
		s.Logger.Info("listening started", nil)
	}
	return s.Status()
}

// Stop ends listening after the current cycle. Calling it while stopped is a no-op.
func (s *Service) Stop() domain.Status {
	s.Listener.Stop()
	return s.Status()
}

// Dispatch interprets text exactly as if it had been recognized from speech.
func (s *Service) Dispatch(ctx context.Context, text string, origin domain.Origin) domain.DispatchResult {
	return s.Dispatcher.Dispatch(ctx, text, origin)
}

// Status reports the listener state, the wake word and the live settings.
func (s *Service) Status() domain.Status {
	state := s.Listener.State()
	current := s.Settings.Current()
	return domain.Status{
		IsListening: state.Listening,
		WakeWord:    current.WakeWord,
		Settings:    current,
		Reason:      state.Reason,
		Awake:       s.Dispatcher.Session().Awake,
	}
}

// RecentCommands returns up to ten utterances, most recent last.
func (s *Service) RecentCommands() []domain.RecentCommand {
	return s.Dispatcher.Recent()
}

// Commands lists every registered command.
func (s *Service) Commands() []domain.CommandInfo {
	return s.Dispatcher.Commands()
}

// CurrentSettings returns the live settings.
func (s *Service) CurrentSettings() domain.Settings {
	return s.Settings.Current()
}

// UpdateSettings merges and persists a partial settings map.
func (s *Service) UpdateSettings(ctx context.Context, partial map[string]interface{}) (domain.Settings, error) {
	return s.Settings.Update(ctx, partial)
}

// Microphones enumerates input devices.
func (s *Service) Microphones(ctx context.Context) ([]domain.Microphone, error) {
	mics, err := s.Input.Microphones(ctx)
	if err != nil {
		s.Logger.Error("microphone enumeration failed", err, nil)
		return []domain.Microphone{}, fmt.Errorf("list microphones: %w", err)
	}
	if mics == nil {
		mics = []domain.Microphone{}
	}
	return mics, nil
}

// Boot loads settings and starts listening when auto_start_listening is on.
func (s *Service) Boot(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.Settings.Load(ctx); err != nil {
		s.Logger.Warn("continuing with default settings", map[string]interface{}{"error": err.Error()})
	}
	if s.Settings.Current().AutoStartListening {
		s.Start()
	}
	return nil
}

// Close stops the worker and waits for it.
func (s *Service) Close() {
	s.Listener.Close()
}
