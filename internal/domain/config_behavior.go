package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// BridgeAddress returns host:port for the HTTP bridge.
func (c *Config) BridgeAddress() string {
	host := c.Bridge.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Bridge.Port
	if port <= 0 {
		port = DefaultBridgePort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// GetListenTimeout returns how long to wait for speech to start.
func (c *Config) GetListenTimeout() time.Duration {
	if c.Listener.TimeoutSeconds <= 0 {
		return DefaultListenTimeout
	}
	return time.Duration(c.Listener.TimeoutSeconds) * time.Second
}

// GetPhraseLimit returns the maximum length of one captured phrase.
func (c *Config) GetPhraseLimit() time.Duration {
	if c.Listener.PhraseLimitSeconds <= 0 {
		return DefaultPhraseLimit
	}
	return time.Duration(c.Listener.PhraseLimitSeconds) * time.Second
}

// GetErrorBackoff returns the pause enforced between consecutive recognition failures.
func (c *Config) GetErrorBackoff() time.Duration {
	if c.Listener.ErrorBackoff == "" {
		return DefaultErrorBackoff
	}
	d, err := time.ParseDuration(c.Listener.ErrorBackoff)
	if err != nil || d <= 0 {
		return DefaultErrorBackoff
	}
	return d
}

// GetAssistantName returns the name the assistant answers to.
func (c *Config) GetAssistantName() string {
	if c.Session.AssistantName == "" {
		return DefaultAssistantName
	}
	return c.Session.AssistantName
}

// GetBridgeRateLimit returns requests per second and burst for the execute endpoint.
func (c *Config) GetBridgeRateLimit() (float64, int) {
	limit, burst := c.Bridge.RateLimit, c.Bridge.Burst
	if limit <= 0 {
		limit = DefaultBridgeRateLimit
	}
	if burst <= 0 {
		burst = DefaultBridgeBurst
	}
	return limit, burst
}

// GetHistoryRetentionDays returns the number of days to retain history
func (c *Config) GetHistoryRetentionDays() int {
	if c.History.RetentionDays <= 0 {
		return DefaultHistoryRetainDays
	}
	return c.History.RetentionDays
}

// IsSecurityEnabled checks if security guardrails are enabled
func (c *Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// UsesSQLiteHistory reports whether history goes to the sqlite backend.
func (c *Config) UsesSQLiteHistory() bool {
	return c.History.Backend == "" || c.History.Backend == HistoryBackendSQLite
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port %d out of range", c.Bridge.Port)
	}
	switch c.History.Backend {
	case "", HistoryBackendSQLite, HistoryBackendFile:
	default:
		return fmt.Errorf("history.backend must be sqlite|file, got %s", c.History.Backend)
	}
	switch c.Speech.Input {
	case "", SpeechInputConsole, SpeechInputRecorder:
	default:
		return fmt.Errorf("speech.input must be console|recorder, got %s", c.Speech.Input)
	}
	switch c.Speech.Output {
	case "", SpeechOutputConsole, SpeechOutputCommand, SpeechOutputNone:
	default:
		return fmt.Errorf("speech.output must be console|command|none, got %s", c.Speech.Output)
	}
	if c.Listener.ErrorBackoff != "" {
		if _, err := time.ParseDuration(c.Listener.ErrorBackoff); err != nil {
			return fmt.Errorf("listener.error_backoff invalid: %w", err)
		}
	}
	if c.Speech.Input == SpeechInputRecorder && c.Speech.RecorderCommand == "" {
		return fmt.Errorf("speech.recorder_command must be set when speech.input is recorder")
	}
	return nil
}
