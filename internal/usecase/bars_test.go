package usecase

import (
	"context"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	internalrepo "BottomScan/internal/repository"
)

func bar(ts time.Time, close float64) models.Bar {
	return models.Bar{Timestamp: ts, Open: close, High: close, Low: close, Close: close, Volume: 100}
}

func TestMergeIncomingWins(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	existing := []models.Bar{bar(ts, 10)}
	incoming := []models.Bar{bar(ts, 11)}

	merged := u.Merge(existing, incoming)
	if len(merged) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(merged))
	}
	if merged[0].Close != 11 {
		t.Fatalf("incoming bar should win, got close %v", merged[0].Close)
	}
}

func TestMergeSortsAndNormalizes(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	loc := time.FixedZone("KST", 9*3600)
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	merged := u.Merge(
		[]models.Bar{bar(t1, 2)},
		[]models.Bar{bar(t0.In(loc), 1)},
	)
	if len(merged) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(merged))
	}
	if !merged[0].Timestamp.Equal(t0) || merged[0].Close != 1 {
		t.Fatalf("expected normalized sorted order, got %+v", merged)
	}
	if merged[0].Timestamp.Location() != time.UTC {
		t.Fatalf("timestamps must be UTC")
	}
}

func TestMergeIdempotent(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bars := []models.Bar{bar(t0, 1), bar(t0.Add(time.Hour), 2)}

	once := u.Merge(nil, bars)
	twice := u.Merge(once, bars)
	if len(once) != len(twice) {
		t.Fatalf("merge not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("bar %d changed on re-merge", i)
		}
	}
}

func TestFillGapsFlatFillers(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		bar(t0, 10),
		bar(t0.Add(4*time.Hour), 20),
	}

	out := u.FillGaps(bars, 60, 720)
	if len(out) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(out))
	}
	if out[0].Close != 10 || out[4].Close != 20 {
		t.Fatalf("endpoints must be untouched")
	}
	for i := 1; i <= 3; i++ {
		f := out[i]
		if f.Open != 10 || f.High != 10 || f.Low != 10 || f.Close != 10 {
			t.Fatalf("filler %d not flat at prior close: %+v", i, f)
		}
		if f.Volume != 0 {
			t.Fatalf("filler %d must have zero volume", i)
		}
		want := t0.Add(time.Duration(i) * time.Hour)
		if !f.Timestamp.Equal(want) {
			t.Fatalf("filler %d at %v, want %v", i, f.Timestamp, want)
		}
	}
}

func TestFillGapsSkipsWideOutage(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		bar(t0, 10),
		bar(t0.Add(20*time.Hour), 20),
	}

	out := u.FillGaps(bars, 60, 720)
	if len(out) != 2 {
		t.Fatalf("gap wider than max must stay unfilled, got %d bars", len(out))
	}
}

func TestFillGapsNoGap(t *testing.T) {
	u := NewBarUpdater(nil, nil)
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{bar(t0, 1), bar(t0.Add(time.Hour), 2), bar(t0.Add(2*time.Hour), 3)}

	out := u.FillGaps(bars, 60, 720)
	if len(out) != 3 {
		t.Fatalf("contiguous series must not grow, got %d", len(out))
	}
}

func TestUpdateStoreRoundTrip(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	u := NewBarUpdater(store, nil)
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first := []models.Bar{bar(t0, 1), bar(t0.Add(time.Hour), 2)}
	meta, err := u.UpdateStore(ctx, "AAPL", repository.TF1h, first, 720)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if meta.BarCount != 2 {
		t.Fatalf("expected 2 bars, got %d", meta.BarCount)
	}

	// Second update with an overlapping revision and one new bar.
	second := []models.Bar{bar(t0.Add(time.Hour), 5), bar(t0.Add(2*time.Hour), 3)}
	meta, err = u.UpdateStore(ctx, "AAPL", repository.TF1h, second, 720)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if meta.BarCount != 3 {
		t.Fatalf("expected 3 bars after merge, got %d", meta.BarCount)
	}

	got, err := store.Load(ctx, "AAPL", repository.TF1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[1].Close != 5 {
		t.Fatalf("revision must overwrite, got %v", got[1].Close)
	}
}

func TestUpdateStoreInvalidTimeframe(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	u := NewBarUpdater(store, nil)

	_, err := u.UpdateStore(context.Background(), "AAPL", repository.Timeframe("bogus"), nil, 720)
	if err == nil {
		t.Fatalf("expected error for invalid timeframe")
	}
}
