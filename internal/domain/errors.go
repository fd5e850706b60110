package domain

import "errors"

// Registry errors.
var (
	ErrDuplicateTrigger = errors.New("trigger already registered")
	ErrEmptyTrigger     = errors.New("trigger text is empty")
)

// Action errors. Actions wrap these so callers can match with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOutOfRange       = errors.New("entry number out of range")
	ErrPermission       = errors.New("permission denied")
	ErrNotFound         = errors.New("target not found")
	ErrUnsupported      = errors.New("operation not supported on this platform")
	ErrBlockedByPolicy  = errors.New("action blocked by guardrail")
	ErrNotBrowsing      = errors.New("file browsing is not active")
	ErrActionPanicked   = errors.New("action panicked")
	ErrDispatcherClosed = errors.New("dispatcher unavailable")
)

// Recognition errors surface only to the listening loop.
var (
	ErrNoSpeech           = errors.New("no speech detected")
	ErrServiceUnavailable = errors.New("speech service unavailable")
	ErrNoDevice           = errors.New("no input device available")
)

// Settings errors.
var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
	ErrConfig         = errors.New("settings file unreadable")
)
