package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/phoenix-go/assets"
	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/pkg/filesystem"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Guardrail implements the SecurityService port by matching action IDs against YAML rules.
type Guardrail struct {
	patterns []compiledPattern
	blocked  map[string]bool
	enabled  bool
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
		BlockedActions []string        `yaml:"blocked_actions"`
	} `yaml:"rules"`
}

// NewGuardrail loads guardrail rules from disk, falling back to the embedded defaults
// when the file is missing. A disabled guardrail allows everything.
func NewGuardrail(path string, enabled bool) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return newFromRules(rules, enabled)
}

// NewDefaultGuardrail uses only the embedded rules.
func NewDefaultGuardrail(enabled bool) (*Guardrail, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(assets.DefaultGuardrailYAML, &rules); err != nil {
		return nil, fmt.Errorf("parse embedded guardrail rules: %w", err)
	}
	return newFromRules(rules, enabled)
}

// EnsureRulesFile writes the embedded rules to path unless a file already exists.
func EnsureRulesFile(path string) error {
	path = expandPath(path)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return os.WriteFile(path, assets.DefaultGuardrailYAML, domain.SecureFilePermissions)
}

func newFromRules(rules RulesFile, enabled bool) (*Guardrail, error) {
	var compiled []compiledPattern
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	blocked := make(map[string]bool, len(rules.Rules.BlockedActions))
	for _, id := range rules.Rules.BlockedActions {
		blocked[strings.TrimSpace(id)] = true
	}

	return &Guardrail{patterns: compiled, blocked: blocked, enabled: enabled}, nil
}

// Evaluate implements ports.SecurityService.
func (g *Guardrail) Evaluate(actionID string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("guardrail nil")
	}
	assessment := domain.RiskAssessment{
		Level:  domain.RiskSafe,
		Action: domain.GuardrailAllow,
	}
	if !g.enabled {
		return assessment, nil
	}
	if g.blocked[actionID] {
		assessment.Level = domain.RiskCritical
		assessment.Action = domain.GuardrailBlock
		assessment.Reasons = append(assessment.Reasons, "action is listed in blocked_actions")
		assessment.MatchedRules = append(assessment.MatchedRules, actionID)
		return assessment, nil
	}
	highest := domain.RiskSafe
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(actionID) {
			continue
		}
		ruleLevel := parseRiskLevel(pattern.rule.Level)
		if moreSevere(ruleLevel, highest) || assessment.MatchedRules == nil {
			highest = ruleLevel
			assessment.Level = ruleLevel
			assessment.Action = parseAction(pattern.rule.Action, ruleLevel)
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	return assessment, nil
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return RulesFile{}, err
		}
		data = assets.DefaultGuardrailYAML
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse guardrail rules: %w", err)
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

func parseAction(value string, fallback domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "allow":
		return domain.GuardrailAllow
	case "warn":
		return domain.GuardrailWarn
	case "block":
		return domain.GuardrailBlock
	default:
		switch fallback {
		case domain.RiskSafe, domain.RiskLow:
			return domain.GuardrailAllow
		case domain.RiskCritical:
			return domain.GuardrailBlock
		default:
			return domain.GuardrailWarn
		}
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:     0,
		domain.RiskLow:      1,
		domain.RiskMedium:   2,
		domain.RiskHigh:     3,
		domain.RiskCritical: 4,
	}
	return order[next] > order[current]
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".phoenix", "guardrail.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Join(filesystem.UserHomeDir(), path)
}

var _ ports.SecurityService = (*Guardrail)(nil)
