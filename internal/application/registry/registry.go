// Package registry holds the ordered trigger table consulted by the dispatcher.
//
// Registration order is the tie-break contract: when two prefix triggers could both
// match an utterance, the one registered first wins. Validate reports every trigger
// made unreachable by that rule so the overlap is visible at startup.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// Action is the operation bound to a trigger. Exact triggers receive an empty argument.
type Action func(ctx context.Context, arg string) (domain.ActionResult, error)

// Entry binds a trigger to its action.
type Entry struct {
	Trigger     domain.Trigger
	ActionID    string
	Category    string
	Description string
	Action      Action
}

// Info returns the public description of the entry.
func (e Entry) Info() domain.CommandInfo {
	return domain.CommandInfo{
		Trigger:     e.Trigger,
		ActionID:    e.ActionID,
		Category:    e.Category,
		Description: e.Description,
	}
}

// Registry is an insertion-ordered set of entries keyed by trigger text.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends an entry. Trigger text is stored lowercased with whitespace runs
// collapsed to one space.
func (r *Registry) Register(entry Entry) error {
	text := strings.ToLower(entry.Trigger.Text)
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyTrigger
	}
	if entry.Action == nil {
		return fmt.Errorf("trigger %q: nil action", text)
	}
	if entry.Trigger.Kind == "" {
		entry.Trigger.Kind = domain.TriggerExact
	}
	// Transcripts are normalized to single spaces, so triggers are too.
	collapsed := strings.Join(strings.Fields(text), " ")
	if entry.Trigger.Kind == domain.TriggerPrefix && strings.TrimRightFunc(text, unicode.IsSpace) != text {
		collapsed += " "
	}
	text = collapsed
	entry.Trigger.Text = text
	if entry.ActionID == "" {
		entry.ActionID = strings.ReplaceAll(strings.TrimSpace(text), " ", "_")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[text]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateTrigger, text)
	}
	r.index[text] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

// Exact registers an exact-match trigger.
func (r *Registry) Exact(text, actionID, category, description string, action Action) error {
	return r.Register(Entry{
		Trigger:     domain.Trigger{Text: text, Kind: domain.TriggerExact},
		ActionID:    actionID,
		Category:    category,
		Description: description,
		Action:      action,
	})
}

// Prefix registers a prefix trigger. A trailing space is appended when missing
// so the argument is always separated from the trigger word.
func (r *Registry) Prefix(text, actionID, category, description string, action Action) error {
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	return r.Register(Entry{
		Trigger:     domain.Trigger{Text: text, Kind: domain.TriggerPrefix},
		ActionID:    actionID,
		Category:    category,
		Description: description,
		Action:      action,
	})
}

// Entries returns a copy of all entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry registered under the exact trigger text.
func (r *Registry) Lookup(text string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.index[strings.ToLower(text)]
	if !ok {
		return Entry{}, false
	}
	return r.entries[idx], true
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Infos lists the public view of every entry.
func (r *Registry) Infos() []domain.CommandInfo {
	entries := r.Entries()
	out := make([]domain.CommandInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Info())
	}
	return out
}

// MatchExact finds the first exact entry equal to text.
func (r *Registry) MatchExact(text string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Trigger.Kind == domain.TriggerExact && e.Trigger.Text == text {
			return e, true
		}
	}
	return Entry{}, false
}

// MatchPrefix finds the first prefix entry that text starts with and that leaves
// a non-empty argument. The trimmed argument is returned alongside the entry.
func (r *Registry) MatchPrefix(text string) (Entry, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Trigger.Kind != domain.TriggerPrefix || !strings.HasPrefix(text, e.Trigger.Text) {
			continue
		}
		arg := strings.TrimSpace(text[len(e.Trigger.Text):])
		if arg == "" {
			continue
		}
		return e, arg, true
	}
	return Entry{}, "", false
}

// Overlap describes a trigger that can never match because an earlier one always wins.
type Overlap struct {
	Shadowed domain.Trigger
	By       domain.Trigger
}

func (o Overlap) String() string {
	return fmt.Sprintf("prefix trigger %q is shadowed by earlier prefix trigger %q", o.Shadowed.Text, o.By.Text)
}

// Validate reports prefix triggers made unreachable by an earlier prefix trigger.
func (r *Registry) Validate() []Overlap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var overlaps []Overlap
	for i, later := range r.entries {
		if later.Trigger.Kind != domain.TriggerPrefix {
			continue
		}
		for _, earlier := range r.entries[:i] {
			if earlier.Trigger.Kind != domain.TriggerPrefix {
				continue
			}
			if strings.HasPrefix(later.Trigger.Text, earlier.Trigger.Text) {
				overlaps = append(overlaps, Overlap{Shadowed: later.Trigger, By: earlier.Trigger})
				break
			}
		}
	}
	return overlaps
}
