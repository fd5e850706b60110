package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

func newStores(t *testing.T) map[string]ports.HistoryRepository {
	t.Helper()
	dir := t.TempDir()
	sqlite, err := NewSQLiteStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]ports.HistoryRepository{
		"file":   NewFileStore(filepath.Join(dir, "history.jsonl")),
		"sqlite": sqlite,
	}
}

func record(id, input string, ts time.Time, status domain.DispatchStatus) domain.HistoryRecord {
	return domain.HistoryRecord{
		ID:        id,
		Timestamp: ts,
		Input:     input,
		Trigger:   input,
		Status:    status,
		Message:   "msg " + id,
		Origin:    domain.OriginAPI,
	}
}

func TestStores(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save(record("1", "what is the time", base, domain.DispatchSuccess)))
			require.NoError(t, store.Save(record("2", "open notepad", base.Add(time.Hour), domain.DispatchSuccess)))
			require.NoError(t, store.Save(record("3", "fly me", base.Add(2*time.Hour), domain.DispatchUnmatched)))

			all, err := store.Records(0, "")
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "3", all[0].ID, "newest first")
			assert.Equal(t, domain.DispatchUnmatched, all[0].Status)
			assert.Equal(t, domain.OriginAPI, all[0].Origin)
			assert.True(t, all[2].Timestamp.Equal(base))

			limited, err := store.Records(2, "")
			require.NoError(t, err)
			assert.Len(t, limited, 2)

			found, err := store.Records(0, "notepad")
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, "2", found[0].ID)

			dest := filepath.Join(t.TempDir(), "export.jsonl")
			require.NoError(t, store.ExportJSON(dest))
			raw, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Equal(t, 3, strings.Count(string(raw), "\n"))

			removed, err := store.Prune(base.Add(90 * time.Minute))
			require.NoError(t, err)
			assert.Equal(t, 2, removed)
			rest, err := store.Records(0, "")
			require.NoError(t, err)
			require.Len(t, rest, 1)
			assert.Equal(t, "3", rest[0].ID)

			require.NoError(t, store.Clear())
			empty, err := store.Records(0, "")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestFileStoreSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n{\"id\":\"ok\",\"input\":\"hello\"}\n"), 0o600))

	records, err := NewFileStore(path).Records(0, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].ID)
}
