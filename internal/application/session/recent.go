package session

import (
	"sync"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// RecentLog is a bounded, oldest-evicted log of processed utterances.
type RecentLog struct {
	mu       sync.Mutex
	capacity int
	entries  []domain.RecentCommand
}

// NewRecentLog creates a log holding at most capacity entries.
func NewRecentLog(capacity int) *RecentLog {
	if capacity <= 0 {
		capacity = domain.RecentCommandCapacity
	}
	return &RecentLog{capacity: capacity, entries: make([]domain.RecentCommand, 0, capacity)}
}

// Append records text, evicting the oldest entry on overflow.
func (l *RecentLog) Append(text string, at time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, domain.RecentCommand{Command: text, Timestamp: at})
}

// Entries returns the log, most recent last.
func (l *RecentLog) Entries() []domain.RecentCommand {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.RecentCommand, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries held.
func (l *RecentLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
