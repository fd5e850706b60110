package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Session constants
const (
	// RecentCommandCapacity bounds the in-memory recent command log
	RecentCommandCapacity = 10
	// DefaultAssistantName is the legacy name token stripped from utterances
	DefaultAssistantName = "phoenix"
)

// Listener constants
const (
	// DefaultListenTimeout is how long a capture waits for speech to start
	DefaultListenTimeout = 1 * time.Second
	// DefaultPhraseLimit caps the length of one captured phrase
	DefaultPhraseLimit = 5 * time.Second
	// DefaultErrorBackoff spaces out retries after recognition failures
	DefaultErrorBackoff = 1 * time.Second
)

// Bridge constants
const (
	// DefaultBridgePort matches the port the GUI expects
	DefaultBridgePort = 5000
	// DefaultBridgeRateLimit is the execute endpoint budget per client, per second
	DefaultBridgeRateLimit = 5.0
	// DefaultBridgeBurst is the execute endpoint burst size
	DefaultBridgeBurst = 10
	// DefaultRequestTimeout bounds a single bridge request
	DefaultRequestTimeout = 30 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
	// MaxHistoryAnalysisRecords is the maximum number of records to analyze
	MaxHistoryAnalysisRecords = 1000
)

// Adapter selectors
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendFile   = "file"

	SpeechInputConsole  = "console"
	SpeechInputRecorder = "recorder"

	SpeechOutputConsole = "console"
	SpeechOutputCommand = "command"
	SpeechOutputNone    = "none"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
