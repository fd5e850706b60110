package helpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func TestParseYAMLValue(t *testing.T) {
	assert.Equal(t, true, ParseYAMLValue("true"))
	assert.Equal(t, 80, ParseYAMLValue("80"))
	assert.Equal(t, "hey pc", ParseYAMLValue("hey pc"))
	assert.Equal(t, "", ParseYAMLValue(`""`))
	assert.Equal(t, "", ParseYAMLValue(""))
	assert.Equal(t, "[oops", ParseYAMLValue("[oops"))
}

func TestCalculateTopCommands(t *testing.T) {
	freq := map[string]int{"open ": 3, "hello": 3, "time": 1, "date": 5}
	got := CalculateTopCommands(freq, 3)
	assert.Equal(t, []CommandStatistic{
		{Command: "date", Count: 5},
		{Command: "hello", Count: 3},
		{Command: "open ", Count: 3},
	}, got)
	assert.Len(t, CalculateTopCommands(freq, 0), 4)
}

func TestCalculateSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, CalculateSuccessRate(3, 0))
	assert.InDelta(t, 50.0, CalculateSuccessRate(1, 2), 0.001)
}

func TestRenderDispatch(t *testing.T) {
	var out bytes.Buffer
	RenderDispatch(&out, domain.DispatchResult{
		Status:         domain.DispatchSuccess,
		Normalized:     "list",
		MatchedTrigger: &domain.Trigger{Text: "list", Kind: domain.TriggerExact},
		ActionResult: &domain.ActionResult{
			Status:  domain.ActionSuccess,
			Message: "Listing /",
			Payload: map[string]interface{}{
				"entries": []domain.DirEntry{{Name: "home", IsDir: true}, {Name: "notes.txt"}},
				"listing": "1: home/\n2: notes.txt",
				"path":    "/",
			},
		},
	})
	assert.Equal(t, "Executed: list\nResult: Listing /\nentries:\n  1. home/\n  2. notes.txt\npath: /\n", out.String())

	out.Reset()
	RenderDispatch(&out, domain.DispatchResult{Status: domain.DispatchUnmatched, Normalized: "fly"})
	assert.Equal(t, "Unknown command: \"fly\"\n", out.String())

	out.Reset()
	failure := domain.Failure("boom")
	RenderDispatch(&out, domain.DispatchResult{
		Status:         domain.DispatchExecutionError,
		MatchedTrigger: &domain.Trigger{Text: "close ", Kind: domain.TriggerPrefix},
		ActionResult:   &failure,
	})
	assert.Equal(t, "Command failed: boom\n", out.String())
}

func TestRenderCommands(t *testing.T) {
	var out bytes.Buffer
	RenderCommands(&out, []domain.CommandInfo{
		{Trigger: domain.Trigger{Text: "hello", Kind: domain.TriggerExact}, Category: "conversation", Description: "Greeting"},
		{Trigger: domain.Trigger{Text: "open ", Kind: domain.TriggerPrefix}, Category: "apps", Description: "Open anything"},
	})
	assert.Contains(t, out.String(), "[CONVERSATION]")
	assert.Contains(t, out.String(), "open ...")
}
