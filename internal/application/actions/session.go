package actions

import (
	"context"
	"fmt"

	"github.com/doeshing/phoenix-go/internal/application/session"
	"github.com/doeshing/phoenix-go/internal/domain"
)

// Session trigger texts the dispatcher treats specially.
const (
	TriggerWakeUp   = "wake up"
	TriggerLocation = "location"
)

func registerSession(b *batch, d Deps) {
	m := d.Session
	b.exact(TriggerWakeUp, "wake_up", CategorySession, "Wake the assistant", func(context.Context, string) (domain.ActionResult, error) {
		m.Wake()
		return domain.Success(session.Greeting(d.Now(), d.AssistantName), nil), nil
	})
	sleep := func(context.Context, string) (domain.ActionResult, error) {
		m.Sleep()
		return domain.Success("Good bye! Have a nice day.", nil), nil
	}
	b.exact("bye", "sleep", CategorySession, "Put the assistant to sleep", sleep)
	b.exact("by", "sleep_alias", CategorySession, "Put the assistant to sleep", sleep)
	terminate := func(context.Context, string) (domain.ActionResult, error) {
		if !d.StopListening() {
			return domain.Success("I was not listening.", map[string]interface{}{"stopped": false}), nil
		}
		return domain.Success("Shutting down. Good bye!", map[string]interface{}{"stopped": true}), nil
	}
	b.exact("exit", "terminate", CategorySession, "Stop listening", terminate)
	b.exact("terminate", "terminate_alias", CategorySession, "Stop listening", terminate)
	b.exact("list", "browse_list", CategorySession, "List the browse root; follow with \"open N\" or \"back\"", func(ctx context.Context, _ string) (domain.ActionResult, error) {
		return m.List(ctx)
	})
	b.exact(TriggerLocation, "locate_prompt", CategorySession, "Ask for a place and open it in maps", func(context.Context, string) (domain.ActionResult, error) {
		return m.AwaitLocation(), nil
	})
}

func registerConversation(b *batch, d Deps) {
	b.exact("hello", "greet", CategoryConversation, "Greeting", func(context.Context, string) (domain.ActionResult, error) {
		return domain.Success(session.Greeting(d.Now(), d.AssistantName), nil), nil
	})
	b.exact("what is your name", "name", CategoryConversation, "Assistant name", func(context.Context, string) (domain.ActionResult, error) {
		return domain.Success(fmt.Sprintf("My name is %s!", session.DisplayName(d.AssistantName)), nil), nil
	})
	b.exact("date", "date", CategoryConversation, "Today's date", func(context.Context, string) (domain.ActionResult, error) {
		now := d.Now()
		return domain.Success(now.Format("January 02, 2006"), map[string]interface{}{"date": now.Format("2006-01-02")}), nil
	})
	b.exact("time", "time", CategoryConversation, "Current time", func(context.Context, string) (domain.ActionResult, error) {
		return domain.Success(d.Now().Format("15:04:05"), nil), nil
	})
}
