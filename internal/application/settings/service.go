// Package settings owns the live user settings: load with defaults, partial updates
// that are validated and persisted immediately, and reloads after external edits.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Listener is notified with the new settings after every successful change.
type Listener func(domain.Settings)

// Service guards the current settings.
type Service struct {
	store    ports.SettingsStore
	logger   ports.Logger
	validate *validator.Validate

	// saveMu is held from merge through Save so the store sees changes in the
	// order they were applied in memory.
	saveMu sync.Mutex

	mu        sync.RWMutex
	current   domain.Settings
	listeners []Listener
}

// NewService returns a service holding defaults until Load is called.
func NewService(store ports.SettingsStore, logger ports.Logger) *Service {
	v := validator.New()
	v.SetTagName("validate")
	return &Service{
		store:    store,
		logger:   logger,
		validate: v,
		current:  domain.DefaultSettings(),
	}
}

// OnChange registers a listener called after updates, resets and reloads.
func (s *Service) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load reads persisted settings. An unreadable or invalid file leaves the defaults
// in place and the returned error wraps domain.ErrConfig; it is never fatal.
func (s *Service) Load(ctx context.Context) (domain.Settings, error) {
	loaded, err := s.store.Load(ctx)
	if err == nil {
		err = s.check(loaded)
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", domain.ErrConfig, s.store.Path(), err)
		s.logger.Error("settings load failed, using defaults", err, nil)
		s.set(domain.DefaultSettings())
		return s.Current(), err
	}
	s.set(loaded)
	return loaded, nil
}

// Reload re-reads the store after an external change. Invalid content is ignored.
func (s *Service) Reload(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	loaded, err := s.store.Load(ctx)
	if err == nil {
		err = s.check(loaded)
	}
	if err != nil {
		s.logger.Warn("settings reload ignored", map[string]interface{}{"error": err.Error()})
		return
	}
	if loaded == s.Current() {
		return
	}
	s.logger.Info("settings reloaded", map[string]interface{}{"path": s.store.Path()})
	s.set(loaded)
}

// Current returns the live settings.
func (s *Service) Current() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// WakeWord returns the configured wake word.
func (s *Service) WakeWord() string {
	return s.Current().WakeWord
}

// Get returns one setting by key.
func (s *Service) Get(key string) (interface{}, error) {
	if !domain.IsSettingKey(key) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSetting, key)
	}
	m, err := toMap(s.Current())
	if err != nil {
		return nil, err
	}
	return m[key], nil
}

// Update merges partial over the current settings, validates, persists and applies.
// Unknown keys and invalid values are rejected without any change. A failed save
// still applies the merge in memory and returns the error.
func (s *Service) Update(ctx context.Context, partial map[string]interface{}) (domain.Settings, error) {
	if unknown := unknownKeys(partial); len(unknown) > 0 {
		return s.Current(), fmt.Errorf("%w: %s", domain.ErrUnknownSetting, strings.Join(unknown, ", "))
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	merged, err := merge(s.current, partial)
	if err == nil {
		err = s.check(merged)
	}
	if err != nil {
		s.mu.Unlock()
		return s.Current(), err
	}
	s.current = merged
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	saveErr := s.store.Save(ctx, merged)
	if saveErr != nil {
		s.logger.Error("settings save failed", saveErr, map[string]interface{}{"path": s.store.Path()})
		saveErr = fmt.Errorf("save settings: %w", saveErr)
	} else {
		s.logger.Info("settings updated", map[string]interface{}{"keys": sortedKeys(partial)})
	}
	notify(listeners, merged)
	return merged, saveErr
}

// Reset restores and persists the defaults.
func (s *Service) Reset(ctx context.Context) (domain.Settings, error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	defaults := domain.DefaultSettings()
	s.set(defaults)
	if err := s.store.Save(ctx, defaults); err != nil {
		return defaults, fmt.Errorf("save settings: %w", err)
	}
	return defaults, nil
}

// Path returns where settings are persisted.
func (s *Service) Path() string {
	return s.store.Path()
}

func (s *Service) set(next domain.Settings) {
	s.mu.Lock()
	s.current = next
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()
	notify(listeners, next)
}

func (s *Service) check(settings domain.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidSetting, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidSetting, err)
	}
	return nil
}

func notify(listeners []Listener, settings domain.Settings) {
	for _, fn := range listeners {
		fn(settings)
	}
}

func merge(current domain.Settings, partial map[string]interface{}) (domain.Settings, error) {
	base, err := toMap(current)
	if err != nil {
		return current, err
	}
	for k, v := range partial {
		base[k] = v
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return current, fmt.Errorf("%w: %v", domain.ErrInvalidSetting, err)
	}
	var merged domain.Settings
	if err := json.Unmarshal(raw, &merged); err != nil {
		return current, fmt.Errorf("%w: %v", domain.ErrInvalidSetting, err)
	}
	return merged, nil
}

func toMap(settings domain.Settings) (map[string]interface{}, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToMap flattens settings into their JSON key/value form.
func ToMap(settings domain.Settings) map[string]interface{} {
	m, _ := toMap(settings)
	return m
}

func unknownKeys(partial map[string]interface{}) []string {
	var unknown []string
	for k := range partial {
		if !domain.IsSettingKey(k) {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
