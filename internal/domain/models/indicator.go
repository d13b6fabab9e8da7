package models

import "time"

// SignalDirection is the directional verdict of an indicator or a summary.
type SignalDirection string

const (
	Bullish SignalDirection = "bullish"
	Bearish SignalDirection = "bearish"
	Neutral SignalDirection = "neutral"
)

// IndicatorResult is one evaluator's verdict over a bar window.
// Invariant: Signal == Neutral implies Score == 0, and Score never
// exceeds the evaluator's declared weight.
type IndicatorResult struct {
	Indicator string          `json:"indicator"`
	Signal    SignalDirection `json:"signal"`
	Score     int             `json:"score"`
	Evidence  string          `json:"evidence"`
	RawValues map[string]any  `json:"raw_values"`
	Timestamp time.Time       `json:"timestamp"`
}

// NeutralResult builds a zero-score neutral result, used when an
// evaluator has too little history to say anything.
func NeutralResult(indicator string, ts time.Time, evidence string) IndicatorResult {
	return IndicatorResult{
		Indicator: indicator,
		Signal:    Neutral,
		Score:     0,
		Evidence:  evidence,
		RawValues: map[string]any{},
		Timestamp: ts.UTC(),
	}
}

// SignalSummary aggregates all indicator verdicts for one evaluation.
// Derived every cycle, never persisted.
type SignalSummary struct {
	TotalScore      int             `json:"total_score"`
	StrongestSignal SignalDirection `json:"strongest_signal"`
	BullishCount    int             `json:"bullish_count"`
	BearishCount    int             `json:"bearish_count"`
	NeutralCount    int             `json:"neutral_count"`
	ShouldAlert     bool            `json:"should_alert"`
	ShouldCallAI    bool            `json:"should_call_ai"`
	STierHits       int             `json:"s_tier_hits"`
}
