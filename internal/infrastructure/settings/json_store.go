// Package settings persists user settings as settings.json and watches it for external edits.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONStore reads and writes settings.json. Keys missing from the file keep their defaults.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONStore builds a store for path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Load implements ports.SettingsStore. A missing file yields the defaults and is created.
func (s *JSONStore) Load(ctx context.Context) (domain.Settings, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			defaults := domain.DefaultSettings()
			return defaults, s.Save(ctx, defaults)
		}
		return domain.Settings{}, err
	}

	merged := domain.DefaultSettings()
	if err := json.Unmarshal(data, &merged); err != nil {
		return domain.Settings{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return merged, nil
}

// Save implements ports.SettingsStore. The file is replaced atomically.
func (s *JSONStore) Save(_ context.Context, settings domain.Settings) error {
	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.SecureFilePermissions); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

var _ ports.SettingsStore = (*JSONStore)(nil)
