package doctor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/doeshing/phoenix-go/internal/application/apptest"
	"github.com/doeshing/phoenix-go/internal/application/doctor"
	"github.com/doeshing/phoenix-go/internal/domain"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

func findCheck(report domain.HealthReport, name string) (domain.HealthCheck, bool) {
	for _, c := range report.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return domain.HealthCheck{}, false
}

func TestRun_Healthy(t *testing.T) {
	svc := &doctor.Service{
		ConfigProvider:  staticConfig{cfg: domain.Config{ConfigFormatVersion: "1"}},
		SettingsStore:   &apptest.SettingsStore{},
		SecurityService: apptest.Guardrail{},
		HistoryStore:    &apptest.History{},
		Runtime:         apptest.NewRuntime(nil),
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("unexpected failures: %+v", report.Checks)
	}
	if c, ok := findCheck(report, "Guardrail"); !ok || c.Status != domain.HealthOK {
		t.Errorf("guardrail check = %+v", c)
	}
}

func TestRun_ConfigLoadFailure(t *testing.T) {
	svc := &doctor.Service{ConfigProvider: staticConfig{err: errors.New("bad yaml")}}
	report, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !report.HasErrors() {
		t.Fatal("expected failing check")
	}
}

func TestRun_MissingTools(t *testing.T) {
	svc := &doctor.Service{
		ConfigProvider: staticConfig{cfg: domain.Config{Speech: domain.SpeechSettings{
			Output:     domain.SpeechOutputCommand,
			TTSCommand: "espeak-ng -v en",
		}}},
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := findCheck(report, "Speech tools")
	if !ok || c.Status != domain.HealthWarn || c.Details != "not on PATH: espeak-ng" {
		t.Errorf("speech tools check = %+v", c)
	}
	if c, _ := findCheck(report, "Guardrail"); c.Status != domain.HealthWarn {
		t.Errorf("guardrail check = %+v", c)
	}
}
