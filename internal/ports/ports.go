// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The dispatch engine, the session state machine and the listener depend only on
// these interfaces. Speech capture, speech synthesis, OS automation, persistence and
// the bridge live behind them as adapters in the infrastructure layer.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., SpeechInput, ActionRuntime)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.phoenix/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SpeechInput captures audio and converts it to text.
// Capture and Transcribe return domain.ErrNoSpeech when nothing intelligible was heard,
// domain.ErrServiceUnavailable when the recognizer cannot be reached and
// domain.ErrNoDevice when no input device can be opened. Only the last one is fatal.
type SpeechInput interface {
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) ([]byte, error)
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
	Microphones(ctx context.Context) ([]domain.Microphone, error)
}

// SpeechOutput speaks text back to the user.
type SpeechOutput interface {
	Speak(ctx context.Context, text string) error
}

// ActionRuntime is the OS automation capability set every action is written against.
type ActionRuntime interface {
	Launch(ctx context.Context, target string) error
	OpenURL(ctx context.Context, url string) error
	Terminate(ctx context.Context, processName string) (bool, error)
	PressKeys(ctx context.Context, keys ...string) error
	Scroll(ctx context.Context, amount int) error
	Power(ctx context.Context, op domain.PowerOp) error
	ListDir(ctx context.Context, path string) ([]domain.DirEntry, error)
	MakeDir(ctx context.Context, path string) error
	Screenshot(ctx context.Context, path string) error
	Battery(ctx context.Context) (domain.BatteryStatus, error)
	SystemInfo(ctx context.Context) (domain.SystemInfo, error)
}

// SettingsStore persists user settings. Load merges the persisted keys over defaults.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
	Path() string
}

// HistoryRepository persists dispatch outcomes across restarts.
type HistoryRepository interface {
	Save(record domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Prune(before time.Time) (int, error)
	ExportJSON(dest string) error
	Path() string
}

// SecurityService evaluates action IDs against guardrail rules before they run.
type SecurityService interface {
	Evaluate(actionID string) (domain.RiskAssessment, error)
}

// CommandExecutor runs OS commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// EventPublisher fans dispatch events out to subscribers such as websocket clients.
type EventPublisher interface {
	Publish(event domain.DispatchEvent)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
