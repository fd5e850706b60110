package domain

// Config mirrors ~/.phoenix/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	SettingsFile        string            `yaml:"settings_file"`
	Bridge              BridgeSettings    `yaml:"bridge"`
	Listener            ListenerSettings  `yaml:"listener"`
	Speech              SpeechSettings    `yaml:"speech"`
	Session             SessionSettings   `yaml:"session"`
	History             HistorySettings   `yaml:"history"`
	Security            SecuritySettings  `yaml:"security"`
	Execution           ExecutionSettings `yaml:"execution"`
	Logging             LoggingSettings   `yaml:"logging"`
}

// BridgeSettings configures the local HTTP control surface.
type BridgeSettings struct {
	Host      string  `yaml:"host"`
	Port      int     `yaml:"port"`
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// ListenerSettings configures the capture loop.
type ListenerSettings struct {
	TimeoutSeconds     int    `yaml:"timeout_seconds"`
	PhraseLimitSeconds int    `yaml:"phrase_limit_seconds"`
	ErrorBackoff       string `yaml:"error_backoff"`
}

// SpeechSettings selects and configures the speech adapters.
type SpeechSettings struct {
	Input               string `yaml:"input"`
	RecorderCommand     string `yaml:"recorder_command"`
	ListCommand         string `yaml:"list_command"`
	TranscriberEndpoint string `yaml:"transcriber_endpoint"`
	APIKeyEnv           string `yaml:"api_key_env"`
	Model               string `yaml:"model"`
	Output              string `yaml:"output"`
	TTSCommand          string `yaml:"tts_command"`
}

// SessionSettings configures conversational behaviour.
type SessionSettings struct {
	AssistantName        string `yaml:"assistant_name"`
	BrowseRoot           string `yaml:"browse_root"`
	ResetBrowsingOnSleep bool   `yaml:"reset_browsing_on_sleep"`
	SearchURL            string `yaml:"search_url"`
	MapsURL              string `yaml:"maps_url"`
}

// HistorySettings configures the persistent dispatch history.
type HistorySettings struct {
	Backend       string `yaml:"backend"`
	RetentionDays int    `yaml:"retention_days"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how OS commands run.
type ExecutionSettings struct {
	Shell  string `yaml:"shell"`
	DryRun bool   `yaml:"dry_run"`
}

// LoggingSettings controls the log sink.
type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}
