package models

import "time"

// AlertAction is the outcome of one alert-engine evaluation.
type AlertAction string

const (
	ActionSend             AlertAction = "send"
	ActionSendStrengthened AlertAction = "send_strengthened"
	ActionSuppressNoSignal AlertAction = "suppress_no_signal"
	ActionSuppressCooldown AlertAction = "suppress_cooldown"
	ActionSuppressDupe     AlertAction = "suppress_duplicate"
)

// AlertDecision is transient: produced per evaluation, never stored.
type AlertDecision struct {
	Action           AlertAction     `json:"action"`
	ShouldSend       bool            `json:"should_send"`
	Reason           string          `json:"reason"`
	Symbol           string          `json:"symbol"`
	Direction        SignalDirection `json:"direction"`
	Score            int             `json:"score"`
	CooldownRemaining int            `json:"cooldown_remaining_minutes"`
}

// AlertKey identifies the per-(symbol, direction) alert state.
type AlertKey struct {
	Symbol    string
	Direction SignalDirection
}

// AlertRecord is the last-sent state for one AlertKey. Overwritten on
// every accepted or strengthened send, retained for the process lifetime.
type AlertRecord struct {
	Symbol    string
	Direction SignalDirection
	Score     int
	Timestamp time.Time
	Signature string
}
