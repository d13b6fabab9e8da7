package indicator

import (
	"errors"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/service"
)

type stubIndicator struct {
	name   string
	weight int
	fn     func(bars []models.Bar) (models.IndicatorResult, error)
}

func (s stubIndicator) Name() string { return s.name }
func (s stubIndicator) Weight() int  { return s.weight }
func (s stubIndicator) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	return s.fn(bars)
}

func fixed(name string, signal models.SignalDirection, score int) stubIndicator {
	return stubIndicator{
		name:   name,
		weight: 3,
		fn: func([]models.Bar) (models.IndicatorResult, error) {
			return models.IndicatorResult{Indicator: name, Signal: signal, Score: score}, nil
		},
	}
}

func testBars(n int) []models.Bar {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Timestamp: t0.Add(time.Duration(i) * time.Hour), Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}
	}
	return bars
}

func TestRunAggregation(t *testing.T) {
	e := NewEngine([]service.Indicator{
		fixed("a", models.Bullish, 3),
		fixed("b", models.Bullish, 3),
		fixed("c", models.Bearish, 1),
		fixed("d", models.Neutral, 0),
	},
		WithThresholds(5, 6, 2),
		WithSTier([]string{"a", "b"}),
	)

	results, summary, err := e.Run(testBars(10))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if summary.TotalScore != 7 {
		t.Fatalf("expected total 7, got %d", summary.TotalScore)
	}
	if summary.StrongestSignal != models.Bullish {
		t.Fatalf("expected bullish, got %s", summary.StrongestSignal)
	}
	if summary.BullishCount != 2 || summary.BearishCount != 1 || summary.NeutralCount != 1 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if !summary.ShouldAlert {
		t.Fatalf("total 7 >= threshold 5 must alert")
	}
	if !summary.ShouldCallAI {
		t.Fatalf("total 7 >= 6 must flag the interpreter")
	}
	if summary.STierHits != 2 {
		t.Fatalf("expected 2 s-tier hits, got %d", summary.STierHits)
	}
}

func TestRunSTierAloneFlagsAI(t *testing.T) {
	e := NewEngine([]service.Indicator{
		fixed("a", models.Bullish, 2),
		fixed("b", models.Bullish, 2),
	},
		WithThresholds(5, 20, 2),
		WithSTier([]string{"a", "b"}),
	)

	_, summary, err := e.Run(testBars(5))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ShouldAlert {
		t.Fatalf("total 4 below threshold must not alert")
	}
	if !summary.ShouldCallAI {
		t.Fatalf("two s-tier hits must flag the interpreter regardless of total")
	}
}

func TestRunEmptyWindow(t *testing.T) {
	e := NewEngine([]service.Indicator{fixed("a", models.Neutral, 0)})
	_, _, err := e.Run(nil)
	if !errors.Is(err, ErrNoBars) {
		t.Fatalf("expected ErrNoBars, got %v", err)
	}
}

func TestRunContractViolations(t *testing.T) {
	cases := []struct {
		name string
		ind  stubIndicator
	}{
		{"neutral with score", fixed("a", models.Neutral, 2)},
		{"score above weight", stubIndicator{name: "a", weight: 1, fn: func([]models.Bar) (models.IndicatorResult, error) {
			return models.IndicatorResult{Indicator: "a", Signal: models.Bullish, Score: 2}, nil
		}}},
		{"negative score", stubIndicator{name: "a", weight: 3, fn: func([]models.Bar) (models.IndicatorResult, error) {
			return models.IndicatorResult{Indicator: "a", Signal: models.Bearish, Score: -1}, nil
		}}},
		{"wrong name", stubIndicator{name: "a", weight: 3, fn: func([]models.Bar) (models.IndicatorResult, error) {
			return models.IndicatorResult{Indicator: "b", Signal: models.Bullish, Score: 1}, nil
		}}},
	}
	for _, tc := range cases {
		e := NewEngine([]service.Indicator{tc.ind})
		if _, _, err := e.Run(testBars(3)); err == nil {
			t.Fatalf("%s: expected contract violation error", tc.name)
		}
	}
}

func TestDefaultSetComplete(t *testing.T) {
	set := DefaultSet()
	if len(set) != 17 {
		t.Fatalf("expected 17 evaluators, got %d", len(set))
	}
	seen := make(map[string]struct{}, len(set))
	for _, ind := range set {
		if _, dup := seen[ind.Name()]; dup {
			t.Fatalf("duplicate evaluator %s", ind.Name())
		}
		seen[ind.Name()] = struct{}{}
		if ind.Weight() < 1 {
			t.Fatalf("%s has non-positive weight", ind.Name())
		}
	}
	for _, name := range DefaultSTier() {
		if _, ok := seen[name]; !ok {
			t.Fatalf("s-tier name %s not in default set", name)
		}
	}
}
