package models

// AIInterpretation is the parsed response of an augmentation call.
type AIInterpretation struct {
	Regime     string   `json:"regime"`
	Confidence int      `json:"confidence"` // 0..100, enforced by the gate
	Summary    string   `json:"summary"`
	Risks      []string `json:"risks"` // at most 3, extras discarded
	Provider   string   `json:"provider"`
}

// AIInvocation wraps an interpretation with the call/no-call outcome.
// A denied or skipped call is a normal result, not an error.
type AIInvocation struct {
	Called bool              `json:"called"`
	Reason string            `json:"reason"`
	Result *AIInterpretation `json:"result,omitempty"`
}
