package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction describes how the dispatcher should react to a risk level.
type GuardrailAction string

const (
	GuardrailAllow GuardrailAction = "allow"
	GuardrailWarn  GuardrailAction = "warn"
	GuardrailBlock GuardrailAction = "block"
)

// RiskAssessment aggregates security evaluation data.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// Blocked reports whether the assessed action must not run.
func (r RiskAssessment) Blocked() bool {
	return r.Action == GuardrailBlock
}
