package indicator

import (
	"testing"
)

func TestDetectBullishDivergence(t *testing.T) {
	d, err := NewDivergenceDetector(1)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}

	// Two price low pivots at indexes 1 and 3: lower low in price,
	// higher low in the indicator.
	prices := []float64{10, 8, 9, 7, 8, 9}
	indicators := []float64{100, 80, 85, 90, 91, 92}

	sig, err := d.Detect(prices, indicators, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !sig.Found || sig.Kind != DivergenceBullish {
		t.Fatalf("expected bullish divergence, got %+v", sig)
	}
	if sig.PricePivots[0].Index != 1 || sig.PricePivots[1].Index != 3 {
		t.Fatalf("unexpected pivot indexes %+v", sig.PricePivots)
	}
	if sig.PricePivots[1].Value != 7 || sig.IndicatorPivots[1].Value != 90 {
		t.Fatalf("unexpected pivot values %+v %+v", sig.PricePivots, sig.IndicatorPivots)
	}
}

func TestDetectBearishDivergence(t *testing.T) {
	d, _ := NewDivergenceDetector(1)

	// Two price high pivots: higher high in price, lower high in the
	// indicator.
	prices := []float64{10, 12, 11, 13, 12, 11}
	indicators := []float64{50, 60, 55, 58, 52, 50}

	sig, err := d.Detect(prices, indicators, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !sig.Found || sig.Kind != DivergenceBearish {
		t.Fatalf("expected bearish divergence, got %+v", sig)
	}
}

func TestDetectBullishChecksFirst(t *testing.T) {
	d, _ := NewDivergenceDetector(1)

	// Series shaped so both checks apply; bullish must win.
	prices := []float64{10, 6, 11, 9, 12, 5, 9}
	indicators := []float64{50, 40, 60, 42, 55, 48, 50}

	sig, err := d.Detect(prices, indicators, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !sig.Found || sig.Kind != DivergenceBullish {
		t.Fatalf("bullish check must run first, got %+v", sig)
	}
}

func TestDetectInsufficientData(t *testing.T) {
	d, _ := NewDivergenceDetector(2)

	// 2w+3 = 7 points required.
	prices := []float64{1, 2, 3, 4, 5, 6}
	indicators := []float64{1, 2, 3, 4, 5, 6}

	sig, err := d.Detect(prices, indicators, nil)
	if err != nil {
		t.Fatalf("short series must not error: %v", err)
	}
	if sig.Found || sig.Kind != DivergenceNone {
		t.Fatalf("expected none outcome, got %+v", sig)
	}
	if sig.Evidence != "not enough data" {
		t.Fatalf("unexpected evidence %q", sig.Evidence)
	}
}

func TestDetectLengthMismatch(t *testing.T) {
	d, _ := NewDivergenceDetector(1)
	if _, err := d.Detect([]float64{1, 2, 3, 4, 5}, []float64{1, 2}, nil); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestDetectNoDivergence(t *testing.T) {
	d, _ := NewDivergenceDetector(1)

	// Confirming lows: price LL with indicator LL.
	prices := []float64{10, 8, 9, 7, 8, 9}
	indicators := []float64{100, 80, 85, 70, 75, 80}

	sig, err := d.Detect(prices, indicators, nil)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if sig.Found {
		t.Fatalf("confirming move must not be a divergence, got %+v", sig)
	}
}

func TestNewDivergenceDetectorRejectsBadWindow(t *testing.T) {
	if _, err := NewDivergenceDetector(0); err == nil {
		t.Fatalf("expected error for window 0")
	}
}
