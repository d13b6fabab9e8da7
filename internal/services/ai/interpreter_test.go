package ai

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

type stubInterpreter struct {
	payload string
	err     error
	calls   int
}

func (s *stubInterpreter) ProviderName() string { return "stub" }
func (s *stubInterpreter) Generate(context.Context, string) (string, error) {
	s.calls++
	return s.payload, s.err
}

func sendingDecision() models.AlertDecision {
	return models.AlertDecision{Action: models.ActionSend, ShouldSend: true}
}

func aiSummary() models.SignalSummary {
	return models.SignalSummary{TotalScore: 7, StrongestSignal: models.Bullish, ShouldAlert: true, ShouldCallAI: true}
}

func TestMaybeCallSkipsSuppressedAlert(t *testing.T) {
	stub := &stubInterpreter{}
	g := NewGate(stub, NewUsageLimiter(3, 20))

	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil,
		models.AlertDecision{ShouldSend: false}, time.Now())
	if err != nil {
		t.Fatalf("maybecall: %v", err)
	}
	if inv.Called || inv.Reason != "alert suppressed" {
		t.Fatalf("suppressed alert must not call, got %+v", inv)
	}
	if stub.calls != 0 {
		t.Fatalf("provider must not be reached")
	}
}

func TestMaybeCallSkipsBelowAIThreshold(t *testing.T) {
	stub := &stubInterpreter{}
	g := NewGate(stub, NewUsageLimiter(3, 20))

	s := aiSummary()
	s.ShouldCallAI = false
	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, s, nil, sendingDecision(), time.Now())
	if err != nil {
		t.Fatalf("maybecall: %v", err)
	}
	if inv.Called || inv.Reason != "ai threshold unmet" {
		t.Fatalf("unflagged cycle must not call, got %+v", inv)
	}
}

func TestMaybeCallLimiterDenial(t *testing.T) {
	stub := &stubInterpreter{payload: `{"regime":"r","confidence":50,"summary":"s"}`}
	g := NewGate(stub, NewUsageLimiter(1, 20))
	now := time.Now().UTC()

	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), now)
	if err != nil || !inv.Called {
		t.Fatalf("first call must run: %v %+v", err, inv)
	}

	inv, err = g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), now)
	if err != nil {
		t.Fatalf("maybecall: %v", err)
	}
	if inv.Called || inv.Reason != "symbol daily limit" {
		t.Fatalf("expected limiter denial, got %+v", inv)
	}
	if stub.calls != 1 {
		t.Fatalf("denied call must not reach the provider")
	}
}

func TestMaybeCallConfidenceOutOfRange(t *testing.T) {
	stub := &stubInterpreter{payload: `{"regime":"r","confidence":140,"summary":"s"}`}
	g := NewGate(stub, NewUsageLimiter(3, 20))

	_, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), time.Now())
	if err == nil {
		t.Fatalf("confidence outside [0,100] must fail")
	}
}

func TestMaybeCallTruncatesRisks(t *testing.T) {
	stub := &stubInterpreter{payload: `{"regime":"r","confidence":60,"summary":"s","risks":["a","b","c","d","e"]}`}
	g := NewGate(stub, NewUsageLimiter(3, 20))

	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), time.Now())
	if err != nil {
		t.Fatalf("maybecall: %v", err)
	}
	if inv.Result == nil || len(inv.Result.Risks) != 3 {
		t.Fatalf("risks must be capped at 3, got %+v", inv.Result)
	}
	if inv.Result.Provider != "stub" {
		t.Fatalf("result must carry the provider name")
	}
}

func TestMaybeCallMalformedPayload(t *testing.T) {
	stub := &stubInterpreter{payload: "not json"}
	g := NewGate(stub, NewUsageLimiter(3, 20))
	now := time.Now().UTC()

	if _, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), now); err == nil {
		t.Fatalf("malformed payload must fail")
	}

	// A failed call must not burn quota.
	stub.payload = `{"regime":"r","confidence":50,"summary":"s"}`
	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), now)
	if err != nil || !inv.Called {
		t.Fatalf("quota must survive a failed call: %v %+v", err, inv)
	}
}

func TestBuildPromptShape(t *testing.T) {
	results := []models.IndicatorResult{
		{Indicator: "wvf_spike", Signal: models.Bullish, Score: 3, Evidence: "wvf above band"},
	}
	prompt, err := BuildPrompt("AAPL", repository.TF1h, aiSummary(), results)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(prompt), &decoded); err != nil {
		t.Fatalf("prompt must be valid JSON: %v", err)
	}
	if decoded["symbol"] != "AAPL" {
		t.Fatalf("missing symbol, got %v", decoded)
	}
	constraints, ok := decoded["constraints"].([]any)
	if !ok || len(constraints) != 2 {
		t.Fatalf("prompt must carry the phrasing constraints, got %v", decoded["constraints"])
	}
}

func TestRuleBasedPayloadParses(t *testing.T) {
	g := NewGate(NewRuleBased(), NewUsageLimiter(3, 20))

	inv, err := g.MaybeCall(context.Background(), "AAPL", repository.TF1h, aiSummary(), nil, sendingDecision(), time.Now())
	if err != nil {
		t.Fatalf("maybecall: %v", err)
	}
	if !inv.Called || inv.Result == nil {
		t.Fatalf("rule based provider must produce a result, got %+v", inv)
	}
	if inv.Result.Regime != "reversal_watch" {
		t.Fatalf("unexpected regime %q", inv.Result.Regime)
	}
	if inv.Result.Confidence < 0 || inv.Result.Confidence > 100 {
		t.Fatalf("confidence out of range: %d", inv.Result.Confidence)
	}
}
