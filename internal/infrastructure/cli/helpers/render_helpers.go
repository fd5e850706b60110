package helpers

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// RenderDispatch prints one dispatch outcome in a friendly, ASCII-only format.
func RenderDispatch(out io.Writer, res domain.DispatchResult) {
	switch res.Status {
	case domain.DispatchUnmatched:
		if res.Normalized == "" {
			fmt.Fprintln(out, "Nothing to do (asleep or empty input).")
			return
		}
		fmt.Fprintf(out, "Unknown command: %q\n", res.Normalized)
		return
	case domain.DispatchExecutionError:
		fmt.Fprintf(out, "Command failed: %s\n", res.Message())
	default:
		fmt.Fprintf(out, "Executed: %s\n", DescribeTrigger(*res.MatchedTrigger))
		if res.Argument != "" {
			fmt.Fprintf(out, "Argument: %s\n", res.Argument)
		}
		if msg := res.Message(); msg != "" {
			fmt.Fprintf(out, "Result: %s\n", msg)
		}
	}
	if res.ActionResult != nil {
		renderPayload(out, res.ActionResult.Payload)
	}
}

func renderPayload(out io.Writer, payload map[string]interface{}) {
	if len(payload) == 0 {
		return
	}
	for _, key := range SortedKeys(payload) {
		if key == "listing" {
			continue
		}
		switch v := payload[key].(type) {
		case []domain.DirEntry:
			fmt.Fprintf(out, "%s:\n", key)
			for i, entry := range v {
				marker := ""
				if entry.IsDir {
					marker = "/"
				}
				fmt.Fprintf(out, "  %d. %s%s\n", i+1, entry.Name, marker)
			}
		case []string:
			fmt.Fprintf(out, "%s: %s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(out, "%s: %v\n", key, v)
		}
	}
}

// RenderCommands prints the registry grouped by category, in registration order.
func RenderCommands(out io.Writer, infos []domain.CommandInfo) {
	current := ""
	for _, info := range infos {
		if info.Category != current {
			current = info.Category
			fmt.Fprintf(out, "\n[%s]\n", strings.ToUpper(current))
		}
		fmt.Fprintf(out, "  %-28s %s\n", DescribeTrigger(info.Trigger), info.Description)
	}
}
