package dispatch_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/application/actions"
	"github.com/doeshing/phoenix-go/internal/application/apptest"
	"github.com/doeshing/phoenix-go/internal/application/dispatch"
	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/application/session"
	"github.com/doeshing/phoenix-go/internal/domain"
)

var (
	root = filepath.FromSlash("/data")
	sub  = filepath.Join(root, "sub")
)

type staticSettings struct{ s domain.Settings }

func (f staticSettings) Current() domain.Settings { return f.s }

type harness struct {
	svc      *dispatch.Service
	reg      *registry.Registry
	runtime  *apptest.Runtime
	speaker  *apptest.Speaker
	history  *apptest.History
	events   *apptest.Publisher
	machine  *session.Machine
	invoked  map[string]int
	invokeMu sync.Mutex
}

func (h *harness) count(id string) int {
	h.invokeMu.Lock()
	defer h.invokeMu.Unlock()
	return h.invoked[id]
}

type harnessOption func(*dispatch.Options)

func newHarness(t *testing.T, settings domain.Settings, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		reg: registry.New(),
		runtime: apptest.NewRuntime(map[string][]domain.DirEntry{
			root: {{Name: "a.txt"}, {Name: "sub", IsDir: true}},
			sub:  {{Name: "inner.txt"}},
		}),
		speaker: &apptest.Speaker{},
		history: &apptest.History{},
		events:  &apptest.Publisher{},
		invoked: map[string]int{},
	}
	h.machine = session.NewMachine(h.runtime, session.Options{BrowseRoot: root})
	require.NoError(t, actions.Register(h.reg, actions.Deps{
		Runtime: h.runtime,
		Session: h.machine,
		HomeDir: "/home/u",
	}))

	o := dispatch.Options{
		Registry: h.reg,
		Session:  h.machine,
		Settings: staticSettings{settings},
		Speaker:  h.speaker,
		History:  h.history,
		Events:   h.events,
	}
	for _, fn := range opts {
		fn(&o)
	}
	svc, err := dispatch.New(o)
	require.NoError(t, err)
	h.svc = svc
	return h
}

func (h *harness) track(id string) registry.Action {
	return func(context.Context, string) (domain.ActionResult, error) {
		h.invokeMu.Lock()
		h.invoked[id]++
		h.invokeMu.Unlock()
		return domain.Success(id, nil), nil
	}
}

func quiet() domain.Settings {
	s := domain.DefaultSettings()
	s.CommandFeedback = false
	s.VoiceConfirmation = false
	return s
}

func dispatchText(h *harness, text string) domain.DispatchResult {
	return h.svc.Dispatch(context.Background(), text, domain.OriginAPI)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Hey PC open Chrome", want: "open chrome"},
		{in: "open chrome hey pc", want: "open chrome"},
		{in: "  Phoenix   what is   your name ", want: "what is your name"},
		{in: "hey pc", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dispatch.Normalize(tt.in, "hey pc", "phoenix"))
	}
}

func TestContainsWakeWord(t *testing.T) {
	assert.True(t, dispatch.ContainsWakeWord("Hey  PC play", "hey pc", "phoenix"))
	assert.True(t, dispatch.ContainsWakeWord("phoenix play", "hey pc", "phoenix"))
	assert.False(t, dispatch.ContainsWakeWord("play", "hey pc", "phoenix"))
	assert.True(t, dispatch.ContainsWakeWord("play", "", "phoenix"))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := dispatch.New(dispatch.Options{})
	assert.Error(t, err)
}

func TestDispatch_EveryExactTrigger(t *testing.T) {
	for _, entry := range newHarness(t, quiet()).reg.Entries() {
		if entry.Trigger.Kind != domain.TriggerExact {
			continue
		}
		entry := entry
		t.Run(entry.Trigger.Text, func(t *testing.T) {
			h := newHarness(t, quiet())
			res := dispatchText(h, entry.Trigger.Text)
			require.True(t, res.Matched())
			assert.Equal(t, entry.Trigger, *res.MatchedTrigger)
			assert.Empty(t, res.Argument)
			assert.NotEqual(t, domain.DispatchUnmatched, res.Status)
		})
	}
}

func TestDispatch_PrefixTriggers(t *testing.T) {
	args := []string{"x", "chrome", "golang release notes"}
	for _, entry := range newHarness(t, quiet()).reg.Entries() {
		if entry.Trigger.Kind != domain.TriggerPrefix {
			continue
		}
		for _, arg := range args {
			h := newHarness(t, quiet())
			res := dispatchText(h, entry.Trigger.Text+" "+arg+" ")
			require.True(t, res.Matched(), "%q", entry.Trigger.Text+arg)
			assert.Equal(t, entry.Trigger.Text, res.MatchedTrigger.Text)
			assert.Equal(t, arg, res.Argument)
			assert.Equal(t, domain.DispatchSuccess, res.Status)
		}
	}
}

func TestDispatch_BarePrefixIsUnmatched(t *testing.T) {
	h := newHarness(t, quiet())
	for _, text := range []string{"open", "close", "search", "press", "create folder"} {
		res := dispatchText(h, text)
		assert.Equal(t, domain.DispatchUnmatched, res.Status, text)
		assert.Nil(t, res.MatchedTrigger)
	}
	assert.Empty(t, h.runtime.CallLog())
}

func TestDispatch_RegistrationOrderWins(t *testing.T) {
	h := newHarness(t, quiet())
	reg := registry.New()
	require.NoError(t, reg.Prefix("open ", "short", "", "", h.track("short")))
	require.NoError(t, reg.Prefix("open application ", "long", "", "", h.track("long")))

	svc, err := dispatch.New(dispatch.Options{Registry: reg, Session: h.machine, Settings: staticSettings{quiet()}})
	require.NoError(t, err)

	res := svc.Dispatch(context.Background(), "open application notepad", domain.OriginCLI)
	assert.Equal(t, "open ", res.MatchedTrigger.Text)
	assert.Equal(t, "application notepad", res.Argument)
	assert.Equal(t, 1, h.count("short"))
	assert.Equal(t, 0, h.count("long"))
}

func TestDispatch_RecentLogCapped(t *testing.T) {
	h := newHarness(t, quiet())
	for i := 1; i <= 11; i++ {
		dispatchText(h, fmt.Sprintf("utterance %d", i))
	}
	recent := h.svc.Recent()
	require.Len(t, recent, 10)
	for i, rc := range recent {
		assert.Equal(t, fmt.Sprintf("utterance %d", i+2), rc.Command)
	}
}

func TestDispatch_AsleepIgnoresEverythingButWakeUp(t *testing.T) {
	h := newHarness(t, quiet())
	res := dispatchText(h, "bye")
	require.Equal(t, domain.DispatchSuccess, res.Status)
	require.False(t, h.machine.Awake())
	logged := len(h.svc.Recent())

	res = dispatchText(h, "shut down the computer")
	assert.Equal(t, domain.DispatchUnmatched, res.Status)
	assert.Empty(t, h.runtime.CallLog())
	assert.Len(t, h.svc.Recent(), logged)
	assert.False(t, h.machine.Awake())

	res = dispatchText(h, "Hey PC wake up")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	assert.True(t, h.machine.Awake())
	assert.Contains(t, res.Message(), "I am Phoenix")
	assert.Len(t, h.svc.Recent(), logged+1)
}

func TestDispatch_BrowsingOpenFile(t *testing.T) {
	h := newHarness(t, quiet())
	res := dispatchText(h, "list")
	require.Equal(t, domain.DispatchSuccess, res.Status)

	res = dispatchText(h, "open 1")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	assert.Equal(t, "1", res.Argument)
	assert.Contains(t, h.runtime.CallLog(), "launch "+filepath.Join(root, "a.txt"))
	_, browsing := h.machine.Browsing()
	assert.False(t, browsing)
}

func TestDispatch_BrowsingOpenDirectory(t *testing.T) {
	h := newHarness(t, quiet())
	dispatchText(h, "list")

	res := dispatchText(h, "open 2")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	b, ok := h.machine.Browsing()
	require.True(t, ok)
	assert.Equal(t, sub, b.Path)
	assert.Equal(t, []domain.DirEntry{{Name: "inner.txt"}}, b.Entries)

	res = dispatchText(h, "back")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	b, _ = h.machine.Browsing()
	assert.Equal(t, root, b.Path)
	assert.Len(t, b.Entries, 2)
}

func TestDispatch_BackAtRoot(t *testing.T) {
	h := newHarness(t, quiet())
	dispatchText(h, "list")
	before := h.machine.Snapshot()

	res := dispatchText(h, "back")
	require.NotNil(t, res.ActionResult)
	assert.Equal(t, domain.ActionError, res.ActionResult.Status)
	assert.Contains(t, res.Message(), "root directory")
	assert.Equal(t, before, h.machine.Snapshot())
}

func TestDispatch_BrowsingBadNumber(t *testing.T) {
	h := newHarness(t, quiet())
	dispatchText(h, "list")

	for _, text := range []string{"open 9", "open zero", "open 0"} {
		res := dispatchText(h, text)
		assert.Equal(t, domain.DispatchExecutionError, res.Status, text)
		require.NotNil(t, res.ActionResult)
		assert.Equal(t, domain.ActionError, res.ActionResult.Status)
	}
	_, browsing := h.machine.Browsing()
	assert.True(t, browsing)
}

func TestDispatch_BrowsingFallsThrough(t *testing.T) {
	h := newHarness(t, quiet())
	dispatchText(h, "list")

	res := dispatchText(h, "mute")
	assert.Equal(t, "mute", res.MatchedTrigger.Text)
	res = dispatchText(h, "open task manager")
	assert.Equal(t, "open task manager", res.MatchedTrigger.Text)
	_, browsing := h.machine.Browsing()
	assert.True(t, browsing)
}

func TestDispatch_BackWithoutBrowsingIsUnmatched(t *testing.T) {
	h := newHarness(t, quiet())
	assert.Equal(t, domain.DispatchUnmatched, dispatchText(h, "back").Status)
}

func TestDispatch_LocationDialog(t *testing.T) {
	h := newHarness(t, quiet())

	res := dispatchText(h, "location")
	assert.Equal(t, "Which place are you looking for?", res.Message())

	res = dispatchText(h, "Eiffel Tower")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
	assert.Equal(t, "eiffel tower", res.Argument)
	assert.Equal(t, []string{"open_url https://www.google.com/maps/place/eiffel%20tower"}, h.runtime.CallLog())

	dispatchText(h, "location")
	res = dispatchText(h, "cancel")
	assert.Equal(t, "Cancelled", res.Message())
	assert.Equal(t, domain.DialogNone, h.machine.Dialog())
}

func TestDispatch_ActionPanicBecomesExecutionError(t *testing.T) {
	h := newHarness(t, quiet())
	reg := registry.New()
	require.NoError(t, reg.Exact("explode", "explode", "", "", func(context.Context, string) (domain.ActionResult, error) {
		panic("boom")
	}))
	svc, err := dispatch.New(dispatch.Options{Registry: reg, Session: h.machine, Settings: staticSettings{quiet()}})
	require.NoError(t, err)

	res := svc.Dispatch(context.Background(), "explode", domain.OriginAPI)
	assert.Equal(t, domain.DispatchExecutionError, res.Status)
	assert.Contains(t, res.Message(), "boom")

	res = svc.Dispatch(context.Background(), "explode", domain.OriginAPI)
	assert.Equal(t, domain.DispatchExecutionError, res.Status)
}

func TestDispatch_Feedback(t *testing.T) {
	h := newHarness(t, domain.DefaultSettings())

	dispatchText(h, "mute")
	dispatchText(h, "gibberish")
	h.runtime.Fail["launch"] = domain.ErrNotFound
	dispatchText(h, "open nowhere")

	assert.Equal(t, []string{
		"Executing mute",
		"Volume muted",
		dispatch.PhraseUnknown,
		"Executing open nowhere",
		dispatch.PhraseError,
	}, h.speaker.Spoken())
}

func TestDispatch_VoiceFeedbackOffMutesEverything(t *testing.T) {
	s := domain.DefaultSettings()
	s.VoiceFeedback = false
	h := newHarness(t, s)
	dispatchText(h, "mute")
	dispatchText(h, "gibberish")
	assert.Empty(t, h.speaker.Spoken())
}

func TestDispatch_GuardrailBlocks(t *testing.T) {
	h := newHarness(t, quiet(), func(o *dispatch.Options) {
		o.Security = apptest.Guardrail{Blocked: map[string]bool{"power_shutdown": true}}
	})
	res := dispatchText(h, "shut down the computer")
	assert.Equal(t, domain.DispatchExecutionError, res.Status)
	assert.Contains(t, res.Message(), "blocked")
	assert.Empty(t, h.runtime.CallLog())
}

func TestDispatch_HistoryAndEvents(t *testing.T) {
	h := newHarness(t, quiet())
	dispatchText(h, "hey pc mute")
	dispatchText(h, "nonsense")

	records, err := h.history.Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "nonsense", records[0].Input)
	assert.Equal(t, domain.DispatchUnmatched, records[0].Status)
	assert.Equal(t, "mute", records[1].Trigger)

	events := h.events.Published()
	require.Len(t, events, 2)
	assert.Equal(t, "dispatch", events[0].Type)
	assert.True(t, events[0].Awake)
}

func TestDispatch_HistoryFailureIsNotReturned(t *testing.T) {
	h := newHarness(t, quiet())
	h.history.Err = fmt.Errorf("disk full")
	res := dispatchText(h, "mute")
	assert.Equal(t, domain.DispatchSuccess, res.Status)
}

func TestDispatch_ConcurrentCallsKeepLogConsistent(t *testing.T) {
	const workers, perWorker = 8, 25
	recent := session.NewRecentLog(workers * perWorker)
	h := newHarness(t, quiet(), func(o *dispatch.Options) {
		o.Recent = recent
		o.Now = time.Now
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			origin := domain.OriginAPI
			if w == 0 {
				origin = domain.OriginVoice
			}
			for i := 0; i < perWorker; i++ {
				h.svc.Dispatch(context.Background(), fmt.Sprintf("search for w%d-%d", w, i), origin)
			}
		}(w)
	}
	wg.Wait()

	entries := recent.Entries()
	require.Len(t, entries, workers*perWorker)
	seen := make([]string, 0, len(entries))
	for _, e := range entries {
		seen = append(seen, e.Command)
	}
	sort.Strings(seen)
	for i := 1; i < len(seen); i++ {
		assert.NotEqual(t, seen[i-1], seen[i], "duplicate entry")
	}
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp))
	}
	assert.Len(t, h.runtime.CallLog(), workers*perWorker)
}
