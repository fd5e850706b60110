package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/phoenix-go/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	if err := validateSecurity(cfg.Security); err != nil {
		return err
	}
	if err := validateSpeech(cfg.Speech); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateSecurity(sec domain.SecuritySettings) error {
	if sec.Enabled && sec.RulesFile == "" {
		return fmt.Errorf("security.rules_file must be set when security is enabled")
	}
	return nil
}

func validateSpeech(sp domain.SpeechSettings) error {
	if sp.Input == domain.SpeechInputRecorder {
		if sp.TranscriberEndpoint == "" {
			return fmt.Errorf("speech.transcriber_endpoint must be set when speech.input is recorder")
		}
		if !strings.HasPrefix(sp.TranscriberEndpoint, "http://") && !strings.HasPrefix(sp.TranscriberEndpoint, "https://") {
			return fmt.Errorf("speech.transcriber_endpoint must be an http(s) URL, got %s", sp.TranscriberEndpoint)
		}
	}
	if sp.Output == domain.SpeechOutputCommand && sp.TTSCommand == "" {
		return fmt.Errorf("speech.tts_command must be set when speech.output is command")
	}
	return nil
}

func validateHistory(h domain.HistorySettings) error {
	if h.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must be >= 0")
	}
	return nil
}
