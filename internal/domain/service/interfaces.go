package service

import (
	"context"

	"BottomScan/internal/domain/models"
)

// Indicator is a pluggable evaluator producing a bounded-score directional
// verdict from a bar window. Weight is the maximum contributable score.
// Evaluate must fail on an empty window and otherwise return a result
// consistent with the declared weight (neutral means zero score).
type Indicator interface {
	Name() string
	Weight() int
	Evaluate(bars []models.Bar) (models.IndicatorResult, error)
}

// Interpreter turns a structured prompt into interpretation text. The call
// is network-bound; implementations carry their own timeout.
type Interpreter interface {
	ProviderName() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Notifier delivers a single text payload. Implementations may fail;
// callers are expected to wrap delivery so failures never abort a cycle.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Converter translates a USD price into a secondary display currency.
type Converter interface {
	Convert(usd float64) float64
	Label() string
}
