package indicator

import (
	"fmt"

	"BottomScan/internal/domain/models"
)

// OBVDivergence compares price pivots against on-balance volume pivots.
type OBVDivergence struct {
	base
	detector *DivergenceDetector
}

func NewOBVDivergence() *OBVDivergence {
	d, _ := NewDivergenceDetector(1)
	return &OBVDivergence{base: base{name: "obv_divergence", weight: 3}, detector: d}
}

func (o *OBVDivergence) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	sig, bull := detectForBars(o.detector, bars, obv(bars))
	return o.verdict(bars, bull, sig.Evidence,
		map[string]any{"found": sig.Found, "kind": string(sig.Kind)}), nil
}

// ADLineDivergence compares price pivots against the accumulation/
// distribution line.
type ADLineDivergence struct {
	base
	detector *DivergenceDetector
}

func NewADLineDivergence() *ADLineDivergence {
	d, _ := NewDivergenceDetector(1)
	return &ADLineDivergence{base: base{name: "adline_divergence", weight: 1}, detector: d}
}

func (a *ADLineDivergence) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	sig, bull := detectForBars(a.detector, bars, adLine(bars))
	return a.verdict(bars, bull, sig.Evidence,
		map[string]any{"found": sig.Found, "kind": string(sig.Kind)}), nil
}

// MACDDivergence compares price pivots against the MACD line.
type MACDDivergence struct {
	base
	detector *DivergenceDetector
}

func NewMACDDivergence() *MACDDivergence {
	d, _ := NewDivergenceDetector(1)
	return &MACDDivergence{base: base{name: "macd_divergence", weight: 1}, detector: d}
}

func (m *MACDDivergence) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	line, _, _ := macd(models.Closes(bars))
	sig, bull := detectForBars(m.detector, bars, line)
	return m.verdict(bars, bull, sig.Evidence,
		map[string]any{"kind": string(sig.Kind)}), nil
}

// MACDOBVDivergence demands MACD and OBV to both diverge bullishly against
// price before it fires.
type MACDOBVDivergence struct {
	base
	detector *DivergenceDetector
}

func NewMACDOBVDivergence() *MACDOBVDivergence {
	d, _ := NewDivergenceDetector(1)
	return &MACDOBVDivergence{base: base{name: "macd_obv_divergence", weight: 1}, detector: d}
}

func (m *MACDOBVDivergence) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	line, _, _ := macd(models.Closes(bars))
	sig1, bull1 := detectForBars(m.detector, bars, line)
	sig2, bull2 := detectForBars(m.detector, bars, obv(bars))
	bull := bull1 && bull2
	return m.verdict(bars, bull,
		fmt.Sprintf("macd=%s obv=%s", sig1.Kind, sig2.Kind),
		map[string]any{"macd_kind": string(sig1.Kind), "obv_kind": string(sig2.Kind)}), nil
}
