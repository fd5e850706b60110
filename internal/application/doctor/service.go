package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	appconfig "github.com/doeshing/phoenix-go/internal/application/config"
	"github.com/doeshing/phoenix-go/internal/application/registry"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	SettingsStore   ports.SettingsStore
	SecurityService ports.SecurityService
	SpeechInput     ports.SpeechInput
	HistoryStore    ports.HistoryRepository
	Runtime         ports.ActionRuntime
	Registry        *registry.Registry
	LookPath        func(string) (string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("loaded format %s", cfg.ConfigFormatVersion)))
	}

	if s.SettingsStore != nil {
		if _, err := s.SettingsStore.Load(ctx); err != nil {
			checks = append(checks, warn("Settings", fmt.Sprintf("%s unreadable, defaults in use: %v", s.SettingsStore.Path(), err)))
		} else {
			checks = append(checks, ok("Settings", s.SettingsStore.Path()))
		}
	}

	if s.SecurityService != nil {
		if _, err := s.SecurityService.Evaluate("power_shutdown"); err != nil {
			checks = append(checks, fail("Guardrail", err.Error()))
		} else {
			checks = append(checks, ok("Guardrail", "rules loaded"))
		}
	} else {
		checks = append(checks, warn("Guardrail", "security service not initialized"))
	}

	if s.Registry != nil {
		checks = append(checks, registryCheck(s.Registry))
	}

	if s.SpeechInput != nil {
		if mics, err := s.SpeechInput.Microphones(ctx); err != nil {
			checks = append(checks, warn("Microphones", err.Error()))
		} else if len(mics) == 0 {
			checks = append(checks, warn("Microphones", "no input devices found"))
		} else {
			checks = append(checks, ok("Microphones", fmt.Sprintf("%d device(s)", len(mics))))
		}
	}

	checks = append(checks, s.speechToolsCheck(cfg.Speech))
	checks = append(checks, apiKeyCheck(cfg.Speech))

	if s.HistoryStore != nil {
		if _, err := s.HistoryStore.Records(1, ""); err != nil {
			checks = append(checks, warn("History", err.Error()))
		} else {
			checks = append(checks, ok("History", s.HistoryStore.Path()))
		}
	}

	if s.Runtime != nil {
		if info, err := s.Runtime.SystemInfo(ctx); err != nil {
			checks = append(checks, warn("System info", err.Error()))
		} else {
			checks = append(checks, ok("System info", fmt.Sprintf("cpu %.0f%%, memory %.0f%%", info.CPUPercent, info.MemoryPercent)))
		}
	}

	return domain.HealthReport{Checks: checks}, nil
}

func registryCheck(reg *registry.Registry) domain.HealthCheck {
	overlaps := reg.Validate()
	if len(overlaps) == 0 {
		return ok("Commands", fmt.Sprintf("%d registered, no shadowed triggers", reg.Len()))
	}
	msgs := make([]string, 0, len(overlaps))
	for _, o := range overlaps {
		msgs = append(msgs, o.String())
	}
	return warn("Commands", strings.Join(msgs, "; "))
}

func (s *Service) speechToolsCheck(sp domain.SpeechSettings) domain.HealthCheck {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	var missing []string
	for _, command := range []string{sp.RecorderCommand, sp.TTSCommand} {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			continue
		}
		if _, err := lookPath(fields[0]); err != nil {
			missing = append(missing, fields[0])
		}
	}
	if len(missing) > 0 {
		return warn("Speech tools", "not on PATH: "+strings.Join(missing, ", "))
	}
	return ok("Speech tools", "available")
}

func apiKeyCheck(sp domain.SpeechSettings) domain.HealthCheck {
	if sp.Input != domain.SpeechInputRecorder || sp.APIKeyEnv == "" {
		return ok("API keys", "not required")
	}
	if os.Getenv(sp.APIKeyEnv) == "" {
		return warn("API keys", sp.APIKeyEnv+" missing")
	}
	return ok("API keys", sp.APIKeyEnv+" set")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
