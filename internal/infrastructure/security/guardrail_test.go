package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/phoenix-go/internal/domain"
)

func missingRules(t *testing.T) string {
	return filepath.Join(t.TempDir(), "guardrail.yaml")
}

func TestGuardrailWarnsOnPowerActions(t *testing.T) {
	guardrail, err := NewGuardrail(missingRules(t), true)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("power_shutdown")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Action != domain.GuardrailWarn || result.Level != domain.RiskHigh {
		t.Fatalf("expected high warn, got %+v", result)
	}
	if result.Blocked() {
		t.Fatal("default rules must not block power actions")
	}
}

func TestGuardrailAllowsSafeAction(t *testing.T) {
	guardrail, err := NewGuardrail(missingRules(t), true)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, err := guardrail.Evaluate("tell_time")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if result.Level != domain.RiskSafe || result.Action != domain.GuardrailAllow {
		t.Fatalf("expected safe, got %+v", result)
	}
}

func TestGuardrailBlockedActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: '^power_'
      level: critical
      message: power off
  blocked_actions:
    - empty_recycle_bin
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatal(err)
	}
	guardrail, err := NewGuardrail(path, true)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, _ := guardrail.Evaluate("empty_recycle_bin")
	if !result.Blocked() {
		t.Fatalf("expected block, got %+v", result)
	}

	result, _ = guardrail.Evaluate("power_restart")
	if !result.Blocked() || result.Level != domain.RiskCritical {
		t.Fatalf("critical rule without action should block, got %+v", result)
	}
}

func TestGuardrailDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  blocked_actions: [power_shutdown]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	guardrail, err := NewGuardrail(path, false)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	result, _ := guardrail.Evaluate("power_shutdown")
	if result.Blocked() {
		t.Fatalf("disabled guardrail blocked: %+v", result)
	}
}

func TestGuardrailInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardrail.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  danger_patterns:\n    - pattern: '('\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewGuardrail(path, true); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestEnsureRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phoenix", "guardrail.yaml")
	if err := EnsureRulesFile(path); err != nil {
		t.Fatalf("EnsureRulesFile error: %v", err)
	}
	if err := os.WriteFile(path, []byte("rules: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := EnsureRulesFile(path); err != nil {
		t.Fatalf("EnsureRulesFile error: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "rules: {}\n" {
		t.Fatalf("existing rules were overwritten: %q", raw)
	}

	guardrail, err := NewDefaultGuardrail(true)
	if err != nil {
		t.Fatalf("NewDefaultGuardrail error: %v", err)
	}
	if result, _ := guardrail.Evaluate("empty_recycle_bin"); result.Action != domain.GuardrailWarn {
		t.Fatalf("expected warn, got %+v", result)
	}
}
