package indicator

import (
	"errors"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
)

func barsWith(closes, volumes []float64) []models.Bar {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i := range closes {
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      closes[i],
			High:      closes[i] + 0.5,
			Low:       closes[i] - 0.5,
			Close:     closes[i],
			Volume:    volumes[i],
		}
	}
	return bars
}

func flat(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestWVFSpikeFires(t *testing.T) {
	closes := flat(30, 100)
	bars := barsWith(closes, flat(30, 1000))
	// Crash the latest bar far below the window's highest close.
	bars[29].Low = 15
	bars[29].Close = 16

	w := NewWVFSpike()
	res, err := w.Evaluate(bars)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Signal != models.Bullish || res.Score != w.Weight() {
		t.Fatalf("85%% drop must fire at full weight, got %+v", res)
	}
}

func TestWVFSpikeQuietMarket(t *testing.T) {
	bars := barsWith(flat(30, 100), flat(30, 1000))

	w := NewWVFSpike()
	res, err := w.Evaluate(bars)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Signal != models.Neutral || res.Score != 0 {
		t.Fatalf("flat market must stay neutral, got %+v", res)
	}
}

func TestWVFSpikeInsufficientHistory(t *testing.T) {
	bars := barsWith(flat(5, 100), flat(5, 1000))

	res, err := NewWVFSpike().Evaluate(bars)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Signal != models.Neutral || res.Evidence != "insufficient data" {
		t.Fatalf("short history must be a neutral non-error, got %+v", res)
	}
}

func TestVolumeCapitulationFires(t *testing.T) {
	vols := flat(30, 1000)
	vols[29] = 10000
	bars := barsWith(flat(30, 100), vols)

	v := NewVolumeCapitulation()
	res, err := v.Evaluate(bars)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Signal != models.Bullish {
		t.Fatalf("10x spike must fire, got %+v", res)
	}
}

func TestVolumeCapitulationNormalVolume(t *testing.T) {
	bars := barsWith(flat(30, 100), flat(30, 1000))

	res, err := NewVolumeCapitulation().Evaluate(bars)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.Signal != models.Neutral {
		t.Fatalf("steady volume must stay neutral, got %+v", res)
	}
}

func TestEvaluatorsRejectEmptyWindow(t *testing.T) {
	for _, ind := range DefaultSet() {
		if _, err := ind.Evaluate(nil); !errors.Is(err, ErrNoBars) {
			t.Fatalf("%s must fail on empty window, got %v", ind.Name(), err)
		}
	}
}

func TestEvaluatorsHonorContractOnShortHistory(t *testing.T) {
	bars := barsWith(flat(3, 100), flat(3, 1000))
	for _, ind := range DefaultSet() {
		res, err := ind.Evaluate(bars)
		if err != nil {
			t.Fatalf("%s: short history must not error: %v", ind.Name(), err)
		}
		if res.Signal == models.Neutral && res.Score != 0 {
			t.Fatalf("%s: neutral with non-zero score", ind.Name())
		}
		if res.Score < 0 || res.Score > ind.Weight() {
			t.Fatalf("%s: score %d outside [0,%d]", ind.Name(), res.Score, ind.Weight())
		}
	}
}
