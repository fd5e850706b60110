// Package dispatch resolves normalized utterances to registered actions.
//
// Matching order for an awake session: pending dialog, exact triggers, the browsing
// intercept ("open N", "back"), then prefix triggers. Registration order breaks ties
// within each kind. One mutex serializes whole utterances across every origin.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/application/session"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/logger"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Phrases spoken by the dispatcher itself.
const (
	PhraseUnknown   = "Sorry, I don't understand that command"
	PhraseError     = "Error executing command"
	wakeTrigger     = "wake up"
	backTrigger     = "back"
	openTrigger     = "open "
	cancelUtterance = "cancel"
)

// SettingsSource exposes the live settings snapshot.
type SettingsSource interface {
	Current() domain.Settings
}

// Options carries the dispatcher's collaborators. Registry, Session and Settings are required.
type Options struct {
	Registry      *registry.Registry
	Session       *session.Machine
	Recent        *session.RecentLog
	Settings      SettingsSource
	Speaker       ports.SpeechOutput
	Security      ports.SecurityService
	History       ports.HistoryRepository
	Events        ports.EventPublisher
	Logger        ports.Logger
	AssistantName string
	Now           func() time.Time
	NewID         func() string
}

// Service is the dispatcher.
type Service struct {
	opts Options
	mu   sync.Mutex
}

// New validates collaborators and logs trigger overlaps found in the registry.
func New(opts Options) (*Service, error) {
	if opts.Registry == nil || opts.Session == nil || opts.Settings == nil {
		return nil, errors.New("dispatch.Service dependencies not satisfied")
	}
	if opts.Recent == nil {
		opts.Recent = session.NewRecentLog(domain.RecentCommandCapacity)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.AssistantName == "" {
		opts.AssistantName = domain.DefaultAssistantName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	for _, overlap := range opts.Registry.Validate() {
		opts.Logger.Warn("trigger overlap", map[string]interface{}{
			"shadowed": overlap.Shadowed.Text,
			"by":       overlap.By.Text,
		})
	}
	return &Service{opts: opts}, nil
}

// Recent returns the recent command log, most recent last.
func (s *Service) Recent() []domain.RecentCommand {
	return s.opts.Recent.Entries()
}

// Commands lists the registered commands.
func (s *Service) Commands() []domain.CommandInfo {
	return s.opts.Registry.Infos()
}

// Session returns a snapshot of the session state.
func (s *Service) Session() domain.SessionState {
	return s.opts.Session.Snapshot()
}

// Dispatch resolves and runs one utterance. Action faults never escape: they come
// back as DispatchExecutionError.
func (s *Service) Dispatch(ctx context.Context, raw string, origin domain.Origin) domain.DispatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.opts.Settings.Current()
	normalized := Normalize(raw, settings.WakeWord, s.opts.AssistantName)
	res := domain.DispatchResult{
		ID:         s.opts.NewID(),
		Input:      raw,
		Normalized: normalized,
		Origin:     origin,
		Timestamp:  s.opts.Now(),
	}

	if !s.opts.Session.Awake() {
		entry, ok := s.opts.Registry.MatchExact(wakeTrigger)
		if normalized != wakeTrigger || !ok {
			res.Status = domain.DispatchUnmatched
			s.opts.Logger.Debug("asleep, utterance ignored", map[string]interface{}{"input": normalized})
			return res
		}
		s.run(ctx, entry, "", settings, &res)
		s.record(res)
		return res
	}

	if normalized == "" {
		res.Status = domain.DispatchUnmatched
		return res
	}

	if entry, arg, ok := s.resolve(normalized); ok {
		s.run(ctx, entry, arg, settings, &res)
	} else {
		res.Status = domain.DispatchUnmatched
		s.opts.Logger.Warn("unknown command", map[string]interface{}{"input": normalized, "origin": string(origin)})
		if settings.CommandFeedback {
			s.speak(ctx, settings, PhraseUnknown)
		}
	}
	s.record(res)
	return res
}

func (s *Service) resolve(text string) (registry.Entry, string, bool) {
	m := s.opts.Session

	if m.Dialog() == domain.DialogAwaitingLocationQuery {
		if text == cancelUtterance {
			return registry.Entry{
				Trigger:  domain.Trigger{Text: cancelUtterance, Kind: domain.TriggerExact},
				ActionID: "dialog_cancel",
				Action: func(context.Context, string) (domain.ActionResult, error) {
					m.CancelDialog()
					return domain.Success("Cancelled", nil), nil
				},
			}, "", true
		}
		return registry.Entry{
			Trigger:  domain.Trigger{Text: "location", Kind: domain.TriggerExact},
			ActionID: "locate_place",
			Action:   m.AnswerLocation,
		}, text, true
	}

	if entry, ok := s.opts.Registry.MatchExact(text); ok {
		return entry, "", true
	}

	if _, browsing := m.Browsing(); browsing {
		if text == backTrigger {
			return registry.Entry{
				Trigger:  domain.Trigger{Text: backTrigger, Kind: domain.TriggerExact},
				ActionID: "browse_back",
				Action: func(ctx context.Context, _ string) (domain.ActionResult, error) {
					return m.Back(ctx)
				},
			}, "", true
		}
		if strings.HasPrefix(text, openTrigger) {
			if arg := strings.TrimSpace(text[len(openTrigger):]); arg != "" {
				return registry.Entry{
					Trigger:  domain.Trigger{Text: openTrigger, Kind: domain.TriggerPrefix},
					ActionID: "browse_open",
					Action:   m.Open,
				}, arg, true
			}
		}
	}

	return s.opts.Registry.MatchPrefix(text)
}

func (s *Service) run(ctx context.Context, entry registry.Entry, arg string, settings domain.Settings, res *domain.DispatchResult) {
	trigger := entry.Trigger
	res.MatchedTrigger = &trigger
	res.Argument = arg

	if s.opts.Security != nil {
		risk, err := s.opts.Security.Evaluate(entry.ActionID)
		switch {
		case err != nil:
			s.opts.Logger.Warn("guardrail evaluation failed", map[string]interface{}{"action": entry.ActionID, "error": err.Error()})
		case risk.Blocked():
			s.fail(ctx, settings, res, entry, fmt.Errorf("%w: %s", domain.ErrBlockedByPolicy, strings.Join(risk.Reasons, "; ")))
			return
		case risk.Action == domain.GuardrailWarn:
			s.opts.Logger.Warn("guardrail warning", map[string]interface{}{"action": entry.ActionID, "reasons": risk.Reasons})
		}
	}

	if settings.CommandFeedback {
		s.speak(ctx, settings, strings.TrimSpace("Executing "+strings.TrimSpace(trigger.Text)+" "+arg))
	}

	result, err := invoke(ctx, entry.Action, arg)
	if err != nil {
		s.fail(ctx, settings, res, entry, err)
		return
	}
	res.Status = domain.DispatchSuccess
	res.ActionResult = &result
	if settings.VoiceConfirmation && result.Message != "" {
		s.speak(ctx, settings, result.Message)
	}
}

func (s *Service) fail(ctx context.Context, settings domain.Settings, res *domain.DispatchResult, entry registry.Entry, err error) {
	failure := domain.Failure(err.Error())
	res.Status = domain.DispatchExecutionError
	res.ActionResult = &failure
	s.opts.Logger.Error("action failed", err, map[string]interface{}{
		"action":   entry.ActionID,
		"argument": res.Argument,
	})
	if settings.CommandFeedback {
		s.speak(ctx, settings, PhraseError)
	}
}

func (s *Service) record(res domain.DispatchResult) {
	s.opts.Recent.Append(res.Normalized, res.Timestamp)
	if s.opts.History != nil {
		if err := s.opts.History.Save(domain.NewHistoryRecord(res)); err != nil {
			s.opts.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if s.opts.Events != nil {
		s.opts.Events.Publish(domain.DispatchEvent{Type: "dispatch", Result: res, Awake: s.opts.Session.Awake()})
	}
	s.opts.Logger.Info("dispatched", map[string]interface{}{
		"id":     res.ID,
		"input":  res.Normalized,
		"status": string(res.Status),
		"origin": string(res.Origin),
	})
}

func (s *Service) speak(ctx context.Context, settings domain.Settings, text string) {
	if s.opts.Speaker == nil || !settings.VoiceFeedback || text == "" {
		return
	}
	if err := s.opts.Speaker.Speak(ctx, text); err != nil {
		s.opts.Logger.Warn("speech output failed", map[string]interface{}{"error": err.Error()})
	}
}

func invoke(ctx context.Context, action registry.Action, arg string) (result domain.ActionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrActionPanicked, r)
		}
	}()
	return action(ctx, arg)
}
