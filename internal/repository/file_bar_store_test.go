package repository

import (
	"context"
	"testing"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

func storeBar(ts time.Time, close float64) models.Bar {
	return models.Bar{Timestamp: ts, Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 1234.5}
}

func TestFileBarStoreRoundTrip(t *testing.T) {
	store, err := NewFileBarStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC)

	in := []models.Bar{storeBar(t0.Add(time.Hour), 2), storeBar(t0, 1)}
	meta, err := store.Save(ctx, "AAPL", repository.TF1h, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if meta.BarCount != 2 || meta.Timezone != "UTC" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
	if meta.Start == nil || !meta.Start.Equal(t0) {
		t.Fatalf("metadata start must be the earliest bar")
	}

	got, err := store.Load(ctx, "AAPL", repository.TF1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	// Save sorts; nanosecond precision must survive the round trip.
	if !got[0].Timestamp.Equal(t0) || got[0].Close != 1 {
		t.Fatalf("unexpected first bar %+v", got[0])
	}
	if got[1].Volume != 1234.5 {
		t.Fatalf("volume lost in round trip: %v", got[1].Volume)
	}
}

func TestFileBarStoreAbsentKey(t *testing.T) {
	store, err := NewFileBarStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	got, err := store.Load(context.Background(), "NOPE", repository.TF1d)
	if err != nil {
		t.Fatalf("absent key must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("absent key must yield empty history")
	}
}

func TestFileBarStoreReplacesDocument(t *testing.T) {
	store, err := NewFileBarStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.Save(ctx, "AAPL", repository.TF1h, []models.Bar{storeBar(t0, 1), storeBar(t0.Add(time.Hour), 2)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, "AAPL", repository.TF1h, []models.Bar{storeBar(t0, 9)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx, "AAPL", repository.TF1h)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Close != 9 {
		t.Fatalf("save must fully replace the document, got %+v", got)
	}
}

func TestFileBarStoreSanitizesSymbol(t *testing.T) {
	store, err := NewFileBarStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.Save(ctx, "BRK/B", repository.TF1d, []models.Bar{storeBar(t0, 1)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx, "BRK/B", repository.TF1d)
	if err != nil || len(got) != 1 {
		t.Fatalf("path-hostile symbol must round trip: %v %d", err, len(got))
	}
}

func TestMemoryBarStoreIsolation(t *testing.T) {
	store := NewMemoryBarStore()
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, err := store.Save(ctx, "AAPL", repository.TF1h, []models.Bar{storeBar(t0, 1)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := store.Load(ctx, "AAPL", repository.TF1h)
	got[0].Close = 999

	again, _ := store.Load(ctx, "AAPL", repository.TF1h)
	if again[0].Close == 999 {
		t.Fatalf("load must return a copy, not shared state")
	}
}
