package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/service"
	"BottomScan/internal/domain/repository"
)

// promptPayload is the structured evidence handed to the interpreter.
type promptPayload struct {
	Symbol      string         `json:"symbol"`
	Timeframe   string         `json:"timeframe"`
	Score       int            `json:"score"`
	Direction   string         `json:"direction"`
	Results     []promptResult `json:"results"`
	Constraints []string       `json:"constraints"`
}

type promptResult struct {
	Indicator string         `json:"indicator"`
	Signal    string         `json:"signal"`
	Score     int            `json:"score"`
	Evidence  string         `json:"evidence"`
	RawValues map[string]any `json:"raw_values"`
}

// interpretation mirrors the response contract of the external interpreter.
type interpretation struct {
	Regime     string   `json:"regime"`
	Confidence int      `json:"confidence"`
	Summary    string   `json:"summary"`
	Risks      []string `json:"risks"`
}

// Gate is the rate-limited, conditionally invoked bridge to the external
// interpreter. It only fires when the alert will actually be sent, the
// engine flagged the cycle as AI-worthy, and both daily caps hold.
type Gate struct {
	provider service.Interpreter
	limiter  *UsageLimiter
}

func NewGate(provider service.Interpreter, limiter *UsageLimiter) *Gate {
	return &Gate{provider: provider, limiter: limiter}
}

// MaybeCall decides, calls, and parses. A confidence outside [0,100] is a
// provider contract violation and fails the call; risks beyond the third
// entry are discarded. Every no-call outcome carries its reason.
func (g *Gate) MaybeCall(ctx context.Context, symbol string, tf repository.Timeframe, summary models.SignalSummary, results []models.IndicatorResult, decision models.AlertDecision, now time.Time) (models.AIInvocation, error) {
	ts := now.UTC()
	if !decision.ShouldSend {
		return models.AIInvocation{Called: false, Reason: "alert suppressed"}, nil
	}
	if !summary.ShouldCallAI {
		return models.AIInvocation{Called: false, Reason: "ai threshold unmet"}, nil
	}

	allowed, reason := g.limiter.Allow(symbol, ts)
	if !allowed {
		return models.AIInvocation{Called: false, Reason: reason}, nil
	}

	prompt, err := BuildPrompt(symbol, tf, summary, results)
	if err != nil {
		return models.AIInvocation{}, fmt.Errorf("build prompt: %w", err)
	}

	raw, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return models.AIInvocation{}, fmt.Errorf("interpreter %s: %w", g.provider.ProviderName(), err)
	}

	var parsed interpretation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.AIInvocation{}, fmt.Errorf("interpreter %s: malformed payload: %w", g.provider.ProviderName(), err)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 100 {
		return models.AIInvocation{}, fmt.Errorf("interpreter %s: confidence %d out of range", g.provider.ProviderName(), parsed.Confidence)
	}

	risks := parsed.Risks
	if len(risks) > 3 {
		risks = risks[:3]
	}

	g.limiter.Consume(symbol, ts)
	return models.AIInvocation{
		Called: true,
		Reason: "ok",
		Result: &models.AIInterpretation{
			Regime:     parsed.Regime,
			Confidence: parsed.Confidence,
			Summary:    parsed.Summary,
			Risks:      risks,
			Provider:   g.provider.ProviderName(),
		},
	}, nil
}

// BuildPrompt serializes the numeric evidence for the interpreter.
func BuildPrompt(symbol string, tf repository.Timeframe, summary models.SignalSummary, results []models.IndicatorResult) (string, error) {
	payload := promptPayload{
		Symbol:      symbol,
		Timeframe:   string(tf),
		Score:       summary.TotalScore,
		Direction:   string(summary.StrongestSignal),
		Results:     make([]promptResult, 0, len(results)),
		Constraints: []string{"numeric evidence only", "no guarantee language"},
	}
	for _, r := range results {
		payload.Results = append(payload.Results, promptResult{
			Indicator: r.Indicator,
			Signal:    string(r.Signal),
			Score:     r.Score,
			Evidence:  r.Evidence,
			RawValues: r.RawValues,
		})
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
