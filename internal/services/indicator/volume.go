package indicator

import (
	"fmt"

	"BottomScan/internal/domain/models"
)

// WVFSpike flags a Williams VIX Fix blow-off: the percentage drop of the
// latest low against the highest close of the lookback window.
type WVFSpike struct {
	base
	lookback  int
	threshold float64
}

func NewWVFSpike() *WVFSpike {
	return &WVFSpike{base: base{name: "wvf_spike", weight: 3}, lookback: 22, threshold: 80.0}
}

func (w *WVFSpike) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	if len(bars) < w.lookback {
		return w.insufficient(bars), nil
	}
	closes := models.Closes(bars)
	highest := closes[len(closes)-w.lookback]
	for _, c := range closes[len(closes)-w.lookback:] {
		if c > highest {
			highest = c
		}
	}
	wvf := 0.0
	if highest != 0 {
		wvf = (highest - bars[len(bars)-1].Low) / highest * 100
	}
	bull := wvf >= w.threshold
	return w.verdict(bars, bull,
		fmt.Sprintf("wvf=%.2f threshold=%.1f", wvf, w.threshold),
		map[string]any{"wvf": wvf, "threshold": w.threshold}), nil
}

// VolumeCapitulation flags a single-bar volume spike against the rolling
// average, read as capitulation selling near a bottom.
type VolumeCapitulation struct {
	base
	period   int
	multiple float64
}

func NewVolumeCapitulation() *VolumeCapitulation {
	return &VolumeCapitulation{base: base{name: "volume_capitulation", weight: 3}, period: 20, multiple: 3.0}
}

func (v *VolumeCapitulation) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	vols := models.Volumes(bars)
	if len(vols) < v.period {
		return v.insufficient(bars), nil
	}
	var avg float64
	for _, x := range vols[len(vols)-v.period:] {
		avg += x
	}
	avg /= float64(v.period)
	cur := vols[len(vols)-1]
	bull := avg != 0 && cur >= avg*v.multiple
	return v.verdict(bars, bull,
		fmt.Sprintf("volume=%.2f avg=%.2f multiple=%.1f", cur, avg, v.multiple),
		map[string]any{"volume": cur, "avg": avg, "multiple": v.multiple}), nil
}

// VPT requires three consecutive rising volume-price-trend readings.
type VPT struct{ base }

func NewVPT() *VPT { return &VPT{base{name: "vpt", weight: 1}} }

func (v *VPT) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	vpt := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		change := 0.0
		if prev != 0 {
			change = (bars[i].Close - prev) / prev
		}
		vpt[i] = vpt[i-1] + bars[i].Volume*change
	}
	n := len(vpt)
	bull := n >= 3 && vpt[n-1] > vpt[n-2] && vpt[n-2] > vpt[n-3]
	return v.verdict(bars, bull,
		fmt.Sprintf("vpt_last=%.2f", last(vpt, 0)),
		map[string]any{"vpt": last(vpt, 0)}), nil
}

// NVIPVI tracks negative/positive volume indexes; bullish when NVI trades
// above its own 20-bar average.
type NVIPVI struct{ base }

func NewNVIPVI() *NVIPVI { return &NVIPVI{base{name: "nvi_pvi", weight: 1}} }

func (n *NVIPVI) Evaluate(bars []models.Bar) (models.IndicatorResult, error) {
	if len(bars) == 0 {
		return models.IndicatorResult{}, ErrNoBars
	}
	nvi := make([]float64, 1, len(bars))
	pvi := make([]float64, 1, len(bars))
	nvi[0], pvi[0] = 1000.0, 1000.0
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		change := 0.0
		if prevClose != 0 {
			change = (bars[i].Close - prevClose) / prevClose
		}
		if bars[i].Volume < bars[i-1].Volume {
			nvi = append(nvi, nvi[len(nvi)-1]*(1+change))
		} else {
			nvi = append(nvi, nvi[len(nvi)-1])
		}
		if bars[i].Volume > bars[i-1].Volume {
			pvi = append(pvi, pvi[len(pvi)-1]*(1+change))
		} else {
			pvi = append(pvi, pvi[len(pvi)-1])
		}
	}
	bull := false
	if len(nvi) >= 20 {
		bull = nvi[len(nvi)-1] > last(sma(nvi, 20), 0)
	}
	return n.verdict(bars, bull,
		fmt.Sprintf("nvi=%.2f pvi=%.2f", nvi[len(nvi)-1], pvi[len(pvi)-1]),
		map[string]any{"nvi": nvi[len(nvi)-1], "pvi": pvi[len(pvi)-1]}), nil
}
