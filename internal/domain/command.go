package domain

import "time"

// TriggerKind distinguishes whole-utterance triggers from triggers that take an argument.
type TriggerKind string

const (
	TriggerExact  TriggerKind = "exact"
	TriggerPrefix TriggerKind = "prefix"
)

// Trigger is the registered text identifying a command.
// Prefix triggers carry their trailing separator ("open ") so that "opened" never matches.
type Trigger struct {
	Text string      `json:"text"`
	Kind TriggerKind `json:"kind"`
}

// ActionStatus is the outcome reported by an action.
type ActionStatus string

const (
	ActionSuccess ActionStatus = "success"
	ActionError   ActionStatus = "error"
)

// ActionResult is what an action hands back to the dispatcher.
type ActionResult struct {
	Status  ActionStatus           `json:"status"`
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Succeeded reports whether the action completed normally.
func (r ActionResult) Succeeded() bool {
	return r.Status == ActionSuccess
}

// Success builds a successful result with an optional payload.
func Success(message string, payload map[string]interface{}) ActionResult {
	return ActionResult{Status: ActionSuccess, Message: message, Payload: payload}
}

// Failure builds a non-fatal error result. The dispatch itself still counts as matched.
func Failure(message string) ActionResult {
	return ActionResult{Status: ActionError, Message: message}
}

// DispatchStatus is the per-utterance outcome.
type DispatchStatus string

const (
	DispatchSuccess        DispatchStatus = "success"
	DispatchUnmatched      DispatchStatus = "unmatched"
	DispatchExecutionError DispatchStatus = "execution_error"
)

// Origin records where an utterance came from.
type Origin string

const (
	OriginVoice Origin = "voice"
	OriginAPI   Origin = "api"
	OriginCLI   Origin = "cli"
)

// DispatchResult describes how one utterance was resolved.
type DispatchResult struct {
	ID             string         `json:"id"`
	Status         DispatchStatus `json:"status"`
	Input          string         `json:"input"`
	Normalized     string         `json:"normalized"`
	MatchedTrigger *Trigger       `json:"matched_trigger,omitempty"`
	Argument       string         `json:"argument,omitempty"`
	ActionResult   *ActionResult  `json:"action_result,omitempty"`
	Origin         Origin         `json:"origin"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Matched reports whether a trigger was resolved for the utterance.
func (r DispatchResult) Matched() bool {
	return r.MatchedTrigger != nil
}

// Message returns the most useful human-readable text for the result.
func (r DispatchResult) Message() string {
	if r.ActionResult != nil && r.ActionResult.Message != "" {
		return r.ActionResult.Message
	}
	if r.Status == DispatchUnmatched {
		return "Unknown command"
	}
	return ""
}

// CommandInfo is the public description of a registered command.
type CommandInfo struct {
	Trigger     Trigger `json:"trigger"`
	ActionID    string  `json:"action_id"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// DispatchEvent is broadcast to subscribers after each recorded dispatch.
type DispatchEvent struct {
	Type   string         `json:"type"`
	Result DispatchResult `json:"result"`
	Awake  bool           `json:"awake"`
}
