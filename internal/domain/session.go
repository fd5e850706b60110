package domain

import "time"

// DialogState tracks multi-step conversations that span utterances.
type DialogState string

const (
	DialogNone                  DialogState = "none"
	DialogAwaitingLocationQuery DialogState = "awaiting_location_query"
)

// DirEntry is one numbered item of a browsing listing.
type DirEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// BrowsingContext is the file-listing mode that enables "open N" and "back".
type BrowsingContext struct {
	Root    string     `json:"root"`
	Path    string     `json:"path"`
	Entries []DirEntry `json:"entries"`
}

// AtRoot reports whether the listing is at the browse root.
func (b BrowsingContext) AtRoot() bool {
	return b.Path == b.Root
}

// Entry returns the entry addressed by a 1-based index.
func (b BrowsingContext) Entry(n int) (DirEntry, bool) {
	if n < 1 || n > len(b.Entries) {
		return DirEntry{}, false
	}
	return b.Entries[n-1], true
}

// SessionState is a snapshot of cross-utterance context.
type SessionState struct {
	Awake    bool             `json:"awake"`
	Browsing *BrowsingContext `json:"browsing,omitempty"`
	Dialog   DialogState      `json:"dialog"`
}

// RecentCommand is one entry of the bounded recent-command log.
type RecentCommand struct {
	Command   string    `json:"command"`
	Timestamp time.Time `json:"timestamp"`
}
