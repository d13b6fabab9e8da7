package indicator

import (
	"BottomScan/internal/domain/models"
)

// base carries the identity shared by every evaluator in the library.
type base struct {
	name   string
	weight int
}

func (b base) Name() string { return b.name }
func (b base) Weight() int  { return b.weight }

// verdict builds the result every evaluator reduces to: full weight when
// bullish, neutral zero otherwise.
func (b base) verdict(bars []models.Bar, bull bool, evidence string, raw map[string]any) models.IndicatorResult {
	signal := models.Neutral
	score := 0
	if bull {
		signal = models.Bullish
		score = b.weight
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return models.IndicatorResult{
		Indicator: b.name,
		Signal:    signal,
		Score:     score,
		Evidence:  evidence,
		RawValues: raw,
		Timestamp: bars[len(bars)-1].Timestamp.UTC(),
	}
}

// insufficient is the recoverable "too little history" outcome.
func (b base) insufficient(bars []models.Bar) models.IndicatorResult {
	return models.NeutralResult(b.name, bars[len(bars)-1].Timestamp, "insufficient data")
}
