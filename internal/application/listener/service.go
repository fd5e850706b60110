// Package listener runs the single capture, recognize, dispatch worker.
//
// Stop only clears a flag. The worker observes it between cycles, so an in-flight
// capture or transcription finishes first and its utterance is dropped. A Start
// that follows quickly bumps the generation, which retires the old worker even if
// it is still inside that cycle.
package listener

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/doeshing/phoenix-go/internal/application/dispatch"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Dispatcher runs a recognized utterance.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string, origin domain.Origin) domain.DispatchResult
}

// SettingsSource exposes the live settings snapshot.
type SettingsSource interface {
	Current() domain.Settings
}

// Options configures the worker.
type Options struct {
	Input         ports.SpeechInput
	Dispatcher    Dispatcher
	Settings      SettingsSource
	Logger        ports.Logger
	Timeout       time.Duration
	PhraseLimit   time.Duration
	ErrorBackoff  time.Duration
	AssistantName string
}

// State is the listener's externally visible status.
type State struct {
	Listening bool
	Reason    string
}

// Service owns the listening worker.
type Service struct {
	opts    Options
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu         sync.Mutex
	listening  bool
	generation uint64
	reason     string
	closed     bool
}

// New creates a stopped listener.
func New(opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultListenTimeout
	}
	if opts.PhraseLimit <= 0 {
		opts.PhraseLimit = domain.DefaultPhraseLimit
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = domain.DefaultErrorBackoff
	}
	if opts.AssistantName == "" {
		opts.AssistantName = domain.DefaultAssistantName
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.ErrorBackoff), 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker. It reports false when already listening or closed.
func (s *Service) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listening || s.closed {
		return false
	}
	s.listening = true
	s.reason = ""
	s.generation++
	gen := s.generation
	s.wg.Add(1)
	go s.loop(gen)
	s.opts.Logger.Info("started listening", map[string]interface{}{"generation": gen})
	return true
}

// Stop asks the worker to finish after its current cycle. It reports false when
// the listener was not running.
func (s *Service) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.listening {
		return false
	}
	s.listening = false
	s.reason = "stopped"
	s.opts.Logger.Info("stopped listening", nil)
	return true
}

// State returns whether the worker is running and why it last stopped.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Listening: s.listening, Reason: s.reason}
}

// Close stops the worker, cancels in-flight capture and waits for it to exit.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.listening = false
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

func (s *Service) active(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening && s.generation == gen
}

func (s *Service) fail(gen uint64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.listening = false
		s.reason = reason
	}
}

func (s *Service) loop(gen uint64) {
	defer s.wg.Done()
	for s.active(gen) {
		settings := s.opts.Settings.Current()
		text, err := s.recognize(settings.Language)
		if !s.active(gen) {
			return
		}
		if err != nil {
			if fatal := s.handle(gen, err); fatal {
				return
			}
			continue
		}
		s.opts.Logger.Debug("recognized", map[string]interface{}{"text": text})

		settings = s.opts.Settings.Current()
		if !dispatch.ContainsWakeWord(text, settings.WakeWord, s.opts.AssistantName) {
			continue
		}
		s.opts.Dispatcher.Dispatch(s.ctx, text, domain.OriginVoice)
	}
}

func (s *Service) recognize(language string) (string, error) {
	audio, err := s.opts.Input.Capture(s.ctx, s.opts.Timeout, s.opts.PhraseLimit)
	if err != nil {
		return "", err
	}
	return s.opts.Input.Transcribe(s.ctx, audio, language)
}

// handle classifies a recognition failure and reports whether the loop must end.
func (s *Service) handle(gen uint64, err error) bool {
	switch {
	case errors.Is(err, domain.ErrNoSpeech):
		s.opts.Logger.Debug("could not understand audio", nil)
		return false
	case errors.Is(err, domain.ErrNoDevice):
		s.opts.Logger.Error("input device unavailable, listener stopped", err, nil)
		s.fail(gen, err.Error())
		return true
	case errors.Is(err, context.Canceled):
		return true
	default:
		s.opts.Logger.Error("speech recognition failed", err, nil)
		if werr := s.limiter.Wait(s.ctx); werr != nil {
			return true
		}
		return false
	}
}
