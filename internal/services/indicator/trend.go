package indicator

import (
	"fmt"
	"math"

	"BottomScan/internal/domain/models"
)

// FibonacciSupport fires when the close sits within tolerance of the 61.8%
// retracement of the lookback range.
type FibonacciSupport struct {
	base
	lookback  int
	tolerance float64
}

func NewFibonacciSupport() *FibonacciSupport {
	return &FibonacciSupport{base: base{name: "fibonacci_618_support", weight: 1}, lookback: 60, tolerance: 0.01}
}

func (f *FibonacciSupport) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	closes := models.Closes(bars)
	chunk := closes
	if len(closes) >= f.lookback {
		chunk = closes[len(closes)-f.lookback:]
	}
	hi, lo := chunk[0], chunk[0]
	for _, c := range chunk {
		hi = math.Max(hi, c)
		lo = math.Min(lo, c)
	}
	level := hi - (hi-lo)*0.618
	cur := closes[len(closes)-1]
	near := level != 0 && math.Abs(cur-level)/level <= f.tolerance
	return f.verdict(bars, near,
		fmt.Sprintf("close=%.2f fib618=%.2f", cur, level),
		map[string]any{"close": cur, "fib618": level}), nil
}

// IchimokuRSIOBV wants price above the cloud with RSI and OBV confirming.
type IchimokuRSIOBV struct{ base }

func NewIchimokuRSIOBV() *IchimokuRSIOBV {
	return &IchimokuRSIOBV{base{name: "ichimoku_rsi_obv", weight: 1}}
}

func (ic *IchimokuRSIOBV) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	if len(bars) < 52 {
		return ic.insufficient(bars), nil
	}
	highs := models.Highs(bars)
	lows := models.Lows(bars)
	closes := models.Closes(bars)

	tenkan := (maxOf(highs[len(highs)-9:]) + minOf(lows[len(lows)-9:])) / 2
	kijun := (maxOf(highs[len(highs)-26:]) + minOf(lows[len(lows)-26:])) / 2
	spanB := (maxOf(highs[len(highs)-52:]) + minOf(lows[len(lows)-52:])) / 2
	spanA := (tenkan + kijun) / 2

	r := last(rsi(closes, 14), 50)
	ob := obv(bars)
	cur := closes[len(closes)-1]
	bull := cur >= math.Max(spanA, spanB) && r > 45 && ob[len(ob)-1] > ob[len(ob)-2]
	return ic.verdict(bars, bull,
		fmt.Sprintf("close=%.2f cloud=(%.2f,%.2f) rsi=%.2f", cur, spanA, spanB, r),
		map[string]any{"close": cur, "span_a": spanA, "span_b": spanB, "rsi": r}), nil
}

// KsReversal is a fast EMA crossover with an RSI floor.
type KsReversal struct{ base }

func NewKsReversal() *KsReversal { return &KsReversal{base{name: "ks_reversal", weight: 1}} }

func (k *KsReversal) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	closes := models.Closes(bars)
	cur := closes[len(closes)-1]
	ema8 := last(ema(closes, 8), cur)
	ema21 := last(ema(closes, 21), cur)
	r := last(rsi(closes, 14), 50)
	bull := ema8 > ema21 && r > 40
	return k.verdict(bars, bull,
		fmt.Sprintf("ema8=%.2f ema21=%.2f rsi=%.2f", ema8, ema21, r),
		map[string]any{"ema8": ema8, "ema21": ema21, "rsi": r}), nil
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}
