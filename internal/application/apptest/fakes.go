// Package apptest provides in-memory port implementations for application tests.
package apptest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// Runtime is a recording ActionRuntime backed by an in-memory directory tree.
type Runtime struct {
	mu           sync.Mutex
	Dirs         map[string][]domain.DirEntry
	Fail         map[string]error
	Calls        []string
	BatteryState domain.BatteryStatus
	Info         domain.SystemInfo
}

// NewRuntime returns a runtime serving dirs from ListDir.
func NewRuntime(dirs map[string][]domain.DirEntry) *Runtime {
	if dirs == nil {
		dirs = map[string][]domain.DirEntry{}
	}
	return &Runtime{Dirs: dirs, Fail: map[string]error{}}
}

func (r *Runtime) record(op string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, strings.TrimSpace(op+" "+strings.Join(args, " ")))
	return r.Fail[op]
}

// CallLog returns a copy of the recorded calls.
func (r *Runtime) CallLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Calls...)
}

func (r *Runtime) Launch(_ context.Context, target string) error {
	return r.record("launch", target)
}

func (r *Runtime) OpenURL(_ context.Context, url string) error {
	return r.record("open_url", url)
}

func (r *Runtime) Terminate(_ context.Context, name string) (bool, error) {
	if err := r.record("terminate", name); err != nil {
		return false, err
	}
	return name != "ghost", nil
}

func (r *Runtime) PressKeys(_ context.Context, keys ...string) error {
	return r.record("keys", strings.Join(keys, "+"))
}

func (r *Runtime) Scroll(_ context.Context, amount int) error {
	return r.record("scroll", fmt.Sprint(amount))
}

func (r *Runtime) Power(_ context.Context, op domain.PowerOp) error {
	return r.record("power", string(op))
}

func (r *Runtime) ListDir(_ context.Context, path string) ([]domain.DirEntry, error) {
	if err := r.record("list", path); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, ok := r.Dirs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPermission, path)
	}
	return append([]domain.DirEntry(nil), entries...), nil
}

func (r *Runtime) MakeDir(_ context.Context, path string) error {
	return r.record("mkdir", path)
}

func (r *Runtime) Screenshot(_ context.Context, path string) error {
	return r.record("screenshot", path)
}

func (r *Runtime) Battery(context.Context) (domain.BatteryStatus, error) {
	if err := r.record("battery"); err != nil {
		return domain.BatteryStatus{}, err
	}
	return r.BatteryState, nil
}

func (r *Runtime) SystemInfo(context.Context) (domain.SystemInfo, error) {
	if err := r.record("sysinfo"); err != nil {
		return domain.SystemInfo{}, err
	}
	return r.Info, nil
}

// Speaker records spoken phrases.
type Speaker struct {
	mu      sync.Mutex
	Phrases []string
}

func (s *Speaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Phrases = append(s.Phrases, text)
	return nil
}

// Spoken returns a copy of the recorded phrases.
func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Phrases...)
}

// History is an in-memory HistoryRepository.
type History struct {
	mu    sync.Mutex
	Saved []domain.HistoryRecord
	Err   error
}

func (h *History) Save(rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	h.Saved = append(h.Saved, rec)
	return nil
}

func (h *History) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []domain.HistoryRecord
	for i := len(h.Saved) - 1; i >= 0; i-- {
		rec := h.Saved[i]
		if search != "" && !strings.Contains(rec.Input, search) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Saved = nil
	return nil
}

func (h *History) Prune(before time.Time) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	kept := h.Saved[:0]
	removed := 0
	for _, rec := range h.Saved {
		if rec.Timestamp.Before(before) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	h.Saved = kept
	return removed, nil
}

func (h *History) ExportJSON(string) error { return nil }

func (h *History) Path() string { return "memory" }

// Publisher collects published events.
type Publisher struct {
	mu     sync.Mutex
	Events []domain.DispatchEvent
}

func (p *Publisher) Publish(ev domain.DispatchEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, ev)
}

// Published returns a copy of the collected events.
func (p *Publisher) Published() []domain.DispatchEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DispatchEvent(nil), p.Events...)
}

// Guardrail blocks the listed action IDs.
type Guardrail struct {
	Blocked map[string]bool
}

func (g Guardrail) Evaluate(actionID string) (domain.RiskAssessment, error) {
	if g.Blocked[actionID] {
		return domain.RiskAssessment{
			Level:   domain.RiskCritical,
			Action:  domain.GuardrailBlock,
			Reasons: []string{"blocked in test"},
		}, nil
	}
	return domain.RiskAssessment{Level: domain.RiskSafe, Action: domain.GuardrailAllow}, nil
}

// SettingsStore keeps settings in memory.
type SettingsStore struct {
	mu      sync.Mutex
	Current *domain.Settings
	LoadErr error
	SaveErr error
	Saves   int
}

func (s *SettingsStore) Load(context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return domain.Settings{}, s.LoadErr
	}
	if s.Current == nil {
		return domain.DefaultSettings(), nil
	}
	return *s.Current, nil
}

func (s *SettingsStore) Save(_ context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.Current = &settings
	return nil
}

func (s *SettingsStore) Path() string { return "memory://settings.json" }
