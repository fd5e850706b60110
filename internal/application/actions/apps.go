package actions

import (
	"context"
	"fmt"
	"net/url"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func registerApps(b *batch, d Deps) {
	b.exact("open calculator", "open_calculator", CategoryApps, "Calculator", launch(d, "calculator", "Opened calculator"))
	b.exact("open notepad", "open_notepad", CategoryApps, "Notepad", launch(d, "notepad", "Opened notepad"))
	b.exact("open command prompt", "open_terminal", CategoryApps, "Terminal", launch(d, "command prompt", "Command Prompt opened"))
	b.prefix("open ", "launch_application", CategoryApps, "Open an application, file or folder by name", func(ctx context.Context, name string) (domain.ActionResult, error) {
		if err := d.Runtime.Launch(ctx, name); err != nil {
			return domain.ActionResult{}, fmt.Errorf("failed to open %s: %w", name, err)
		}
		return domain.Success("Opened "+name, nil), nil
	})
	b.prefix("close ", "close_application", CategoryApps, "Terminate the first process whose name contains the argument", func(ctx context.Context, name string) (domain.ActionResult, error) {
		found, err := d.Runtime.Terminate(ctx, name)
		if err != nil {
			return domain.ActionResult{}, fmt.Errorf("close %s: %w", name, err)
		}
		if !found {
			return domain.Failure("Could not find " + name), nil
		}
		return domain.Success("Closed "+name, nil), nil
	})
}

func registerWeb(b *batch, d Deps) {
	search := func(ctx context.Context, query string) (domain.ActionResult, error) {
		link := fmt.Sprintf(d.SearchURL, url.QueryEscape(query))
		if err := d.Runtime.OpenURL(ctx, link); err != nil {
			return domain.ActionResult{}, fmt.Errorf("search: %w", err)
		}
		return domain.Success("Searched for "+query, map[string]interface{}{"url": link}), nil
	}
	b.prefix("search for ", "web_search", CategoryWeb, "Web search", search)
	b.prefix("search ", "web_search_short", CategoryWeb, "Web search", search)
}
