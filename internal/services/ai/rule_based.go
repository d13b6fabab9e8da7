package ai

import (
	"context"
	"encoding/json"
)

// RuleBased is the no-credential fallback interpreter. It emits a fixed
// reversal-watch reading so the rest of the pipeline behaves identically
// with or without an external provider configured.
type RuleBased struct{}

func NewRuleBased() *RuleBased { return &RuleBased{} }

func (r *RuleBased) ProviderName() string { return "rule_based" }

func (r *RuleBased) Generate(_ context.Context, _ string) (string, error) {
	b, err := json.Marshal(interpretation{
		Regime:     "reversal_watch",
		Confidence: 58,
		Summary:    "Numeric signals point to a possible bottoming reversal.",
		Risks:      []string{"volatility expansion", "retest of the low"},
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
