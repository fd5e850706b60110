// Package session owns the cross-utterance state: awake/asleep, the file browsing
// context and pending multi-step dialogs.
//
// Every transition goes through Machine. Callers serialize transitions (the
// dispatcher holds its own lock around a whole utterance); the Machine lock only
// protects readers such as status queries from torn snapshots.
package session

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// DefaultMapsURL is the maps lookup used for location queries. %s receives the escaped place.
const DefaultMapsURL = "https://www.google.com/maps/place/%s"

// Options configures a Machine.
type Options struct {
	BrowseRoot           string
	ResetBrowsingOnSleep bool
	MapsURL              string
}

// Machine is the session state machine.
type Machine struct {
	mu      sync.RWMutex
	state   domain.SessionState
	runtime ports.ActionRuntime
	opts    Options
}

// NewMachine starts a session awake, not browsing, with no pending dialog.
func NewMachine(runtime ports.ActionRuntime, opts Options) *Machine {
	if opts.MapsURL == "" {
		opts.MapsURL = DefaultMapsURL
	}
	opts.BrowseRoot = filepath.Clean(opts.BrowseRoot)
	return &Machine{
		runtime: runtime,
		opts:    opts,
		state:   domain.SessionState{Awake: true, Dialog: domain.DialogNone},
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := m.state
	if m.state.Browsing != nil {
		b := *m.state.Browsing
		b.Entries = append([]domain.DirEntry(nil), m.state.Browsing.Entries...)
		snap.Browsing = &b
	}
	return snap
}

// Awake reports whether commands are being interpreted.
func (m *Machine) Awake() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Awake
}

// Sleep moves the session to Asleep. Pending dialogs are dropped; browsing is kept
// unless the machine was configured to reset it.
func (m *Machine) Sleep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Awake = false
	m.state.Dialog = domain.DialogNone
	if m.opts.ResetBrowsingOnSleep {
		m.state.Browsing = nil
	}
}

// Wake moves the session to Awake and reports whether it was asleep.
func (m *Machine) Wake() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	was := m.state.Awake
	m.state.Awake = true
	return !was
}

// Browsing returns the active browsing context, if any.
func (m *Machine) Browsing() (domain.BrowsingContext, bool) {
	snap := m.Snapshot()
	if snap.Browsing == nil {
		return domain.BrowsingContext{}, false
	}
	return *snap.Browsing, true
}

// Dialog returns the pending dialog state.
func (m *Machine) Dialog() domain.DialogState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Dialog
}

// List enters browsing at the browse root.
func (m *Machine) List(ctx context.Context) (domain.ActionResult, error) {
	root := m.opts.BrowseRoot
	entries, err := m.runtime.ListDir(ctx, root)
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("list %s: %w", root, err)
	}
	m.setBrowsing(&domain.BrowsingContext{Root: root, Path: root, Entries: entries})
	return listing("These are the files in your root directory", root, entries), nil
}

// Open follows entry n of the active listing. Files are opened and end browsing;
// directories are descended into.
func (m *Machine) Open(ctx context.Context, arg string) (domain.ActionResult, error) {
	current, ok := m.Browsing()
	if !ok {
		return domain.ActionResult{}, domain.ErrNotBrowsing
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("%w: %q is not an entry number", domain.ErrInvalidArgument, arg)
	}
	entry, ok := current.Entry(n)
	if !ok {
		return domain.ActionResult{}, fmt.Errorf("%w: %d (listing has %d entries)", domain.ErrOutOfRange, n, len(current.Entries))
	}

	target := filepath.Join(current.Path, entry.Name)
	if !entry.IsDir {
		if err := m.runtime.Launch(ctx, target); err != nil {
			return domain.ActionResult{}, fmt.Errorf("open %s: %w", entry.Name, err)
		}
		m.setBrowsing(nil)
		return domain.Success(fmt.Sprintf("Opened %s", entry.Name), map[string]interface{}{"path": target}), nil
	}

	entries, err := m.runtime.ListDir(ctx, target)
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("you do not have permission to access this folder: %w", err)
	}
	m.setBrowsing(&domain.BrowsingContext{Root: current.Root, Path: target, Entries: entries})
	return listing("Opened successfully", target, entries), nil
}

// Back ascends one level. At the root the state is left untouched.
func (m *Machine) Back(ctx context.Context) (domain.ActionResult, error) {
	current, ok := m.Browsing()
	if !ok {
		return domain.ActionResult{}, domain.ErrNotBrowsing
	}
	if current.AtRoot() {
		return domain.Failure("Sorry, this is the root directory"), nil
	}
	parent := filepath.Dir(current.Path)
	if rel, err := filepath.Rel(current.Root, parent); err != nil || strings.HasPrefix(rel, "..") {
		parent = current.Root
	}
	entries, err := m.runtime.ListDir(ctx, parent)
	if err != nil {
		return domain.ActionResult{}, fmt.Errorf("list %s: %w", parent, err)
	}
	m.setBrowsing(&domain.BrowsingContext{Root: current.Root, Path: parent, Entries: entries})
	return listing("ok", parent, entries), nil
}

// AwaitLocation asks for a place and parks the session until the answer arrives.
func (m *Machine) AwaitLocation() domain.ActionResult {
	m.mu.Lock()
	m.state.Dialog = domain.DialogAwaitingLocationQuery
	m.mu.Unlock()
	return domain.Success("Which place are you looking for?", nil)
}

// AnswerLocation resolves the pending location dialog with the given place.
func (m *Machine) AnswerLocation(ctx context.Context, place string) (domain.ActionResult, error) {
	m.CancelDialog()
	place = strings.TrimSpace(place)
	if place == "" {
		return domain.ActionResult{}, fmt.Errorf("%w: empty place", domain.ErrInvalidArgument)
	}
	link := fmt.Sprintf(m.opts.MapsURL, url.PathEscape(place))
	if err := m.runtime.OpenURL(ctx, link); err != nil {
		return domain.ActionResult{}, fmt.Errorf("locate %s: %w", place, err)
	}
	return domain.Success(fmt.Sprintf("Locating %s", place), map[string]interface{}{"url": link}), nil
}

// CancelDialog drops any pending dialog.
func (m *Machine) CancelDialog() {
	m.mu.Lock()
	m.state.Dialog = domain.DialogNone
	m.mu.Unlock()
}

func (m *Machine) setBrowsing(b *domain.BrowsingContext) {
	m.mu.Lock()
	m.state.Browsing = b
	m.mu.Unlock()
}

func listing(message, path string, entries []domain.DirEntry) domain.ActionResult {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		name := e.Name
		if e.IsDir {
			name += string(filepath.Separator)
		}
		lines = append(lines, fmt.Sprintf("%d: %s", i+1, name))
	}
	return domain.Success(message, map[string]interface{}{
		"path":    path,
		"entries": entries,
		"listing": strings.Join(lines, "\n"),
	})
}
