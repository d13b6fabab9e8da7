package indicator

import (
	"fmt"
	"time"

	"BottomScan/internal/domain/models"
)

// DivergenceKind classifies a detected price/indicator divergence.
type DivergenceKind string

const (
	DivergenceBullish DivergenceKind = "bullish"
	DivergenceBearish DivergenceKind = "bearish"
	DivergenceNone    DivergenceKind = "none"
)

// Pivot is a local extremum in a series relative to a symmetric window.
type Pivot struct {
	Index     int
	Value     float64
	Timestamp time.Time
}

// DivergenceSignal is the outcome of one detection pass.
type DivergenceSignal struct {
	Found          bool
	Kind           DivergenceKind
	Evidence       string
	PricePivots    [2]Pivot
	IndicatorPivots [2]Pivot
}

// DivergenceDetector finds pivots with a symmetric window and compares the
// latest two low (or high) pivots of a price series against the same
// positions in a derived indicator series. Stateless: every call recomputes
// pivots from scratch and only the latest two of each kind matter.
type DivergenceDetector struct {
	pivotWindow int
}

// NewDivergenceDetector builds a detector. The window must be >= 1.
func NewDivergenceDetector(pivotWindow int) (*DivergenceDetector, error) {
	if pivotWindow < 1 {
		return nil, fmt.Errorf("pivot window must be >= 1, got %d", pivotWindow)
	}
	return &DivergenceDetector{pivotWindow: pivotWindow}, nil
}

// Detect classifies divergence between prices and indicators. Timestamps are
// optional; pass nil when the caller has none. Fewer than 2w+3 points is an
// "insufficient data" outcome, not an error. The bullish check runs first
// and returns early when both kinds could apply.
func (d *DivergenceDetector) Detect(prices, indicators []float64, timestamps []time.Time) (DivergenceSignal, error) {
	if len(prices) != len(indicators) {
		return DivergenceSignal{}, fmt.Errorf("series length mismatch: %d vs %d", len(prices), len(indicators))
	}
	if len(prices) < 2*d.pivotWindow+3 {
		return DivergenceSignal{Kind: DivergenceNone, Evidence: "not enough data"}, nil
	}

	lows := d.findPivots(prices, false)
	if len(lows) >= 2 {
		p1, p2 := lows[len(lows)-2], lows[len(lows)-1]
		if prices[p2] < prices[p1] && indicators[p2] > indicators[p1] {
			return DivergenceSignal{
				Found:           true,
				Kind:            DivergenceBullish,
				Evidence:        "price LL + indicator HL",
				PricePivots:     pivotPair(prices, timestamps, p1, p2),
				IndicatorPivots: pivotPair(indicators, timestamps, p1, p2),
			}, nil
		}
	}

	highs := d.findPivots(prices, true)
	if len(highs) >= 2 {
		p1, p2 := highs[len(highs)-2], highs[len(highs)-1]
		if prices[p2] > prices[p1] && indicators[p2] < indicators[p1] {
			return DivergenceSignal{
				Found:           true,
				Kind:            DivergenceBearish,
				Evidence:        "price HH + indicator LH",
				PricePivots:     pivotPair(prices, timestamps, p1, p2),
				IndicatorPivots: pivotPair(indicators, timestamps, p1, p2),
			}, nil
		}
	}

	return DivergenceSignal{Kind: DivergenceNone, Evidence: "no divergence"}, nil
}

// findPivots returns indexes strictly above (high) or below (low) every
// neighbor within the window on both sides.
func (d *DivergenceDetector) findPivots(values []float64, high bool) []int {
	var pivots []int
	w := d.pivotWindow
	for i := w; i < len(values)-w; i++ {
		c := values[i]
		ok := true
		for j := i - w; j <= i+w; j++ {
			if j == i {
				continue
			}
			if high && c <= values[j] {
				ok = false
				break
			}
			if !high && c >= values[j] {
				ok = false
				break
			}
		}
		if ok {
			pivots = append(pivots, i)
		}
	}
	return pivots
}

func pivotPair(values []float64, timestamps []time.Time, i1, i2 int) [2]Pivot {
	return [2]Pivot{pivotAt(values, timestamps, i1), pivotAt(values, timestamps, i2)}
}

func pivotAt(values []float64, timestamps []time.Time, idx int) Pivot {
	p := Pivot{Index: idx, Value: values[idx]}
	if timestamps != nil {
		p.Timestamp = timestamps[idx].UTC()
	}
	return p
}

// detectForBars runs detection over a bar window against a derived series
// and reduces the outcome to a bullish yes/no with evidence, the shape the
// divergence-driven evaluators share.
func detectForBars(d *DivergenceDetector, bars []models.Bar, derived []float64) (DivergenceSignal, bool) {
	sig, err := d.Detect(models.Closes(bars), derived, models.Timestamps(bars))
	if err != nil {
		return DivergenceSignal{Kind: DivergenceNone, Evidence: err.Error()}, false
	}
	return sig, sig.Found && sig.Kind == DivergenceBullish
}
