package indicator

import (
	"fmt"

	"BottomScan/internal/domain/models"
)

// MFI flags oversold money-flow readings.
type MFI struct {
	base
	oversold float64
}

func NewMFI() *MFI { return &MFI{base: base{name: "mfi", weight: 1}, oversold: 20.0} }

func (m *MFI) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	val := last(mfi(bars, 14), 50.0)
	bull := val <= m.oversold
	return m.verdict(bars, bull,
		fmt.Sprintf("mfi=%.2f oversold=%.1f", val, m.oversold),
		map[string]any{"mfi": val, "oversold": m.oversold}), nil
}

// CMF flags positive Chaikin money flow.
type CMF struct{ base }

func NewCMF() *CMF { return &CMF{base{name: "cmf", weight: 1}} }

func (c *CMF) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	val := last(cmf(bars, 20), 0.0)
	bull := val > 0
	return c.verdict(bars, bull,
		fmt.Sprintf("cmf=%.4f", val),
		map[string]any{"cmf": val}), nil
}

// TripleStochRSI requires three stochastic smoothings of RSI to agree on
// deeply oversold territory.
type TripleStochRSI struct{ base }

func NewTripleStochRSI() *TripleStochRSI {
	return &TripleStochRSI{base{name: "triple_stoch_rsi", weight: 1}}
}

func (t *TripleStochRSI) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	r := rsi(models.Closes(bars), 14)
	v1 := last(stochastic(r, 14), 50)
	v2 := last(stochastic(r, 21), 50)
	v3 := last(stochastic(r, 28), 50)
	bull := v1 < 20 && v2 < 20 && v3 < 20
	return t.verdict(bars, bull,
		fmt.Sprintf("stoch_rsi=(%.1f,%.1f,%.1f)", v1, v2, v3),
		map[string]any{"s1": v1, "s2": v2, "s3": v3}), nil
}

// CompositeOscillator averages RSI and stochastic into one oversold gauge.
type CompositeOscillator struct{ base }

func NewCompositeOscillator() *CompositeOscillator {
	return &CompositeOscillator{base{name: "composite_oscillator", weight: 1}}
}

func (c *CompositeOscillator) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	closes := models.Closes(bars)
	r := last(rsi(closes, 14), 50)
	k := last(stochastic(closes, 14), 50)
	comp := (r + k) / 2
	bull := comp < 30
	return c.verdict(bars, bull,
		fmt.Sprintf("composite=%.2f", comp),
		map[string]any{"composite": comp}), nil
}

// RSISMA200 pairs an oversold RSI with the close still holding the 200-bar
// average, filtering knife-catches in broken trends.
type RSISMA200 struct{ base }

func NewRSISMA200() *RSISMA200 { return &RSISMA200{base{name: "rsi_sma200", weight: 1}} }

func (r *RSISMA200) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	closes := models.Closes(bars)
	rv := last(rsi(closes, 14), 50)
	sma200 := last(sma(closes, 200), closes[len(closes)-1])
	bull := rv < 30 && closes[len(closes)-1] >= sma200
	return r.verdict(bars, bull,
		fmt.Sprintf("rsi=%.2f close=%.2f sma200=%.2f", rv, closes[len(closes)-1], sma200),
		map[string]any{"rsi": rv, "close": closes[len(closes)-1], "sma200": sma200}), nil
}

// BBStochastic looks for a close at or below the lower Bollinger band while
// the stochastic has already started curling up.
type BBStochastic struct{ base }

func NewBBStochastic() *BBStochastic { return &BBStochastic{base{name: "bb_stochastic", weight: 1}} }

func (b *BBStochastic) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	closes := models.Closes(bars)
	cur := closes[len(closes)-1]
	sma20 := last(sma(closes, 20), cur)
	std20 := 0.0
	if len(closes) >= 20 {
		std20 = stddev(closes[len(closes)-20:])
	}
	lower := sma20 - 2*std20
	stoch := last(stochastic(closes, 14), 50)
	bull := cur <= lower && stoch > 20
	return b.verdict(bars, bull,
		fmt.Sprintf("close=%.2f lower=%.2f stoch=%.2f", cur, lower, stoch),
		map[string]any{"close": cur, "lower": lower, "stoch": stoch}), nil
}
