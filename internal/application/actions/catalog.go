// Package actions is the standard command set registered at startup.
//
// Every action is written against ports.ActionRuntime and the session Machine only;
// speech feedback is left to the dispatcher.
package actions

import (
	"path/filepath"
	"time"

	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/application/session"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// DefaultSearchURL is used by web search. %s receives the escaped query.
const DefaultSearchURL = "https://www.google.com/search?q=%s"

// Categories group commands for listing.
const (
	CategorySession      = "session"
	CategoryConversation = "conversation"
	CategorySystem       = "system"
	CategoryFiles        = "files"
	CategoryApps         = "apps"
	CategoryWeb          = "web"
	CategoryMedia        = "media"
	CategoryKeyboard     = "keyboard"
)

// Deps are the collaborators the catalog closes over.
type Deps struct {
	Runtime       ports.ActionRuntime
	Session       *session.Machine
	AssistantName string
	SearchURL     string
	HomeDir       string
	Now           func() time.Time
	// StopListening ends the capture loop. It reports false when nothing was listening.
	StopListening func() bool
}

func (d *Deps) hydrate() {
	if d.AssistantName == "" {
		d.AssistantName = domain.DefaultAssistantName
	}
	if d.SearchURL == "" {
		d.SearchURL = DefaultSearchURL
	}
	if d.HomeDir == "" {
		d.HomeDir = "."
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.StopListening == nil {
		d.StopListening = func() bool { return false }
	}
}

func (d Deps) documentsDir() string {
	return filepath.Join(d.HomeDir, "Documents")
}

func (d Deps) screenshotsDir() string {
	return filepath.Join(d.HomeDir, "Pictures", "Screenshots")
}

// Register adds the full catalog to reg in its fixed order: session and conversation
// builtins first, then system, files, apps, web, media and keyboard commands.
func Register(reg *registry.Registry, deps Deps) error {
	deps.hydrate()
	b := &batch{reg: reg}
	registerSession(b, deps)
	registerConversation(b, deps)
	registerSystem(b, deps)
	registerFiles(b, deps)
	registerApps(b, deps)
	registerWeb(b, deps)
	registerMedia(b, deps)
	registerKeyboard(b, deps)
	return b.err
}

// batch keeps the first registration error so catalogs read as flat lists.
type batch struct {
	reg *registry.Registry
	err error
}

func (b *batch) exact(text, id, category, desc string, action registry.Action) {
	if b.err != nil {
		return
	}
	b.err = b.reg.Exact(text, id, category, desc, action)
}

func (b *batch) prefix(text, id, category, desc string, action registry.Action) {
	if b.err != nil {
		return
	}
	b.err = b.reg.Prefix(text, id, category, desc, action)
}
