package usecase

import (
	"sync"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
)

func summaryFor(score int, dir models.SignalDirection, shouldAlert bool) models.SignalSummary {
	return models.SignalSummary{
		TotalScore:      score,
		StrongestSignal: dir,
		ShouldAlert:     shouldAlert,
	}
}

func resultsFor(dir models.SignalDirection, names ...string) []models.IndicatorResult {
	out := make([]models.IndicatorResult, 0, len(names))
	for _, n := range names {
		out = append(out, models.IndicatorResult{Indicator: n, Signal: dir, Score: 1})
	}
	return out
}

func TestDecideSendThenCooldown(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := resultsFor(models.Bullish, "wvf_spike", "obv_divergence")

	d := e.Decide("AAPL", summaryFor(6, models.Bullish, true), res, now)
	if d.Action != models.ActionSend || !d.ShouldSend {
		t.Fatalf("first eligible evaluation must send, got %+v", d)
	}

	d = e.Decide("AAPL", summaryFor(6, models.Bullish, true), res, now.Add(30*time.Minute))
	if d.Action != models.ActionSuppressCooldown || d.ShouldSend {
		t.Fatalf("expected cooldown suppression, got %+v", d)
	}
	if d.CooldownRemaining != 90 {
		t.Fatalf("expected 90 minutes remaining, got %d", d.CooldownRemaining)
	}
}

func TestDecideStrengthenedBreaksCooldown(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := resultsFor(models.Bullish, "wvf_spike")

	e.Decide("AAPL", summaryFor(5, models.Bullish, true), res, now)

	d := e.Decide("AAPL", summaryFor(8, models.Bullish, true), res, now.Add(10*time.Minute))
	if d.Action != models.ActionSendStrengthened || !d.ShouldSend {
		t.Fatalf("score jump >= delta must strengthen, got %+v", d)
	}

	// A further equal score inside the refreshed cooldown stays suppressed.
	d = e.Decide("AAPL", summaryFor(8, models.Bullish, true), res, now.Add(20*time.Minute))
	if d.Action != models.ActionSuppressCooldown {
		t.Fatalf("strengthened send must refresh cooldown, got %+v", d)
	}
}

func TestDecideDuplicateAfterCooldown(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	res := resultsFor(models.Bullish, "wvf_spike", "mfi")

	e.Decide("AAPL", summaryFor(6, models.Bullish, true), res, now)

	d := e.Decide("AAPL", summaryFor(6, models.Bullish, true), res, now.Add(3*time.Hour))
	if d.Action != models.ActionSuppressDupe || d.ShouldSend {
		t.Fatalf("same signature and score after cooldown is a duplicate, got %+v", d)
	}

	// A different contributor set is a fresh alert.
	other := resultsFor(models.Bullish, "wvf_spike", "cmf")
	d = e.Decide("AAPL", summaryFor(6, models.Bullish, true), other, now.Add(4*time.Hour))
	if d.Action != models.ActionSend {
		t.Fatalf("changed signature must send, got %+v", d)
	}
}

func TestDecideNoSignal(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Now().UTC()

	d := e.Decide("AAPL", summaryFor(3, models.Bullish, false), nil, now)
	if d.Action != models.ActionSuppressNoSignal || d.ShouldSend {
		t.Fatalf("below threshold must suppress, got %+v", d)
	}
	if d.Reason == "" {
		t.Fatalf("suppression must carry a reason")
	}

	d = e.Decide("AAPL", summaryFor(9, models.Neutral, true), nil, now)
	if d.Action != models.ActionSuppressNoSignal {
		t.Fatalf("neutral direction must suppress, got %+v", d)
	}
}

func TestDecideDirectionsIndependent(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	d := e.Decide("AAPL", summaryFor(6, models.Bullish, true), resultsFor(models.Bullish, "wvf_spike"), now)
	if d.Action != models.ActionSend {
		t.Fatalf("bullish send expected, got %+v", d)
	}

	d = e.Decide("AAPL", summaryFor(6, models.Bearish, true), resultsFor(models.Bearish, "macd_divergence"), now.Add(time.Minute))
	if d.Action != models.ActionSend {
		t.Fatalf("bearish state must be independent of bullish, got %+v", d)
	}
}

func TestDecideConcurrentCallers(t *testing.T) {
	e := NewAlertEngine(120, 3)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	symbols := []string{"AAPL", "MSFT", "NVDA", "TSLA"}

	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			res := resultsFor(models.Bullish, "wvf_spike")
			for i := 0; i < 50; i++ {
				e.Decide(sym, summaryFor(6, models.Bullish, true), res, now.Add(time.Duration(i)*time.Minute))
			}
		}(sym)
	}
	wg.Wait()

	for _, sym := range symbols {
		d := e.Decide(sym, summaryFor(6, models.Bullish, true), resultsFor(models.Bullish, "wvf_spike"), now.Add(time.Hour))
		if d.Action != models.ActionSuppressCooldown {
			t.Fatalf("%s: expected cooldown after concurrent sends, got %+v", sym, d)
		}
	}
}

func TestSignatureSortedAndFiltered(t *testing.T) {
	results := []models.IndicatorResult{
		{Indicator: "obv_divergence", Signal: models.Bullish, Score: 3},
		{Indicator: "wvf_spike", Signal: models.Bullish, Score: 3},
		{Indicator: "mfi", Signal: models.Bullish, Score: 0},
		{Indicator: "macd_divergence", Signal: models.Bearish, Score: 1},
	}
	got := Signature(results, models.Bullish)
	if got != "obv_divergence|wvf_spike" {
		t.Fatalf("unexpected signature %q", got)
	}
}
