package indicator

import (
	"errors"
	"fmt"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/service"
)

// ErrNoBars marks an evaluation attempted over an empty window. This is a
// caller bug, not a data condition, and fails the cycle.
var ErrNoBars = errors.New("indicator: no bars")

// Engine runs an ordered set of evaluators over the same bar window and
// aggregates their verdicts into one directional summary.
type Engine struct {
	indicators      []service.Indicator
	scoreThreshold  int
	aiCallThreshold int
	minSHitsForAI   int
	sTier           map[string]struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithThresholds sets the alert and AI score thresholds.
func WithThresholds(score, aiCall, minSHits int) EngineOption {
	return func(e *Engine) {
		e.scoreThreshold = score
		e.aiCallThreshold = aiCall
		e.minSHitsForAI = minSHits
	}
}

// WithSTier marks indicator names whose hits alone can justify an AI call.
func WithSTier(names []string) EngineOption {
	return func(e *Engine) {
		e.sTier = make(map[string]struct{}, len(names))
		for _, n := range names {
			e.sTier[n] = struct{}{}
		}
	}
}

// NewEngine builds an engine over the given evaluators.
func NewEngine(indicators []service.Indicator, opts ...EngineOption) *Engine {
	e := &Engine{
		indicators:      indicators,
		scoreThreshold:  5,
		aiCallThreshold: 6,
		minSHitsForAI:   2,
		sTier:           map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates every indicator against the full window and aggregates.
// A result violating the evaluator contract (neutral with non-zero score,
// score outside [0, weight], mismatched name) fails fast: it indicates a
// broken plug-in, not a market condition.
func (e *Engine) Run(bars []models.Bar) ([]models.IndicatorResult, models.SignalSummary, error) {
	if len(bars) == 0 {
		return nil, models.SignalSummary{}, ErrNoBars
	}

	results := make([]models.IndicatorResult, 0, len(e.indicators))
	for _, ind := range e.indicators {
		res, err := ind.Evaluate(bars)
		if err != nil {
			return nil, models.SignalSummary{}, fmt.Errorf("evaluate %s: %w", ind.Name(), err)
		}
		if err := validateResult(ind, res); err != nil {
			return nil, models.SignalSummary{}, err
		}
		results = append(results, res)
	}

	var bullish, bearish, total, sHits int
	for _, r := range results {
		switch r.Signal {
		case models.Bullish:
			bullish++
		case models.Bearish:
			bearish++
		}
		total += r.Score
		if _, ok := e.sTier[r.Indicator]; ok && r.Score > 0 {
			sHits++
		}
	}

	strongest := models.Neutral
	if bullish > bearish {
		strongest = models.Bullish
	} else if bearish > bullish {
		strongest = models.Bearish
	}

	summary := models.SignalSummary{
		TotalScore:      total,
		StrongestSignal: strongest,
		BullishCount:    bullish,
		BearishCount:    bearish,
		NeutralCount:    len(results) - bullish - bearish,
		ShouldAlert:     total >= e.scoreThreshold,
		ShouldCallAI:    total >= e.aiCallThreshold || sHits >= e.minSHitsForAI,
		STierHits:       sHits,
	}
	return results, summary, nil
}

func validateResult(ind service.Indicator, res models.IndicatorResult) error {
	if res.Indicator != ind.Name() {
		return fmt.Errorf("indicator %s returned result for %q", ind.Name(), res.Indicator)
	}
	if res.Signal == models.Neutral && res.Score != 0 {
		return fmt.Errorf("indicator %s: neutral result must have zero score, got %d", ind.Name(), res.Score)
	}
	if res.Score < 0 || res.Score > ind.Weight() {
		return fmt.Errorf("indicator %s: score %d outside [0, %d]", ind.Name(), res.Score, ind.Weight())
	}
	return nil
}
