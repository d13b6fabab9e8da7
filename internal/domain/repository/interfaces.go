package repository

import (
	"context"

	"BottomScan/internal/domain/models"
)

// BarStore is durable keyed storage of OHLCV bars per (symbol, timeframe).
// Load returns an empty slice for an absent key; it never fails on absence.
// Save normalizes timestamps to UTC, sorts ascending, and fully replaces the
// prior state for that key, so callers must always save the complete merged
// history.
type BarStore interface {
	Load(ctx context.Context, symbol string, tf Timeframe) ([]models.Bar, error)
	Save(ctx context.Context, symbol string, tf Timeframe, bars []models.Bar) (models.CacheMetadata, error)
}

// Provider fetches fresh bars from a market-data source. An error or an
// empty result means "provider unavailable"; callers fall back to the store.
type Provider interface {
	Fetch(ctx context.Context, symbol string, tf Timeframe) ([]models.Bar, error)
}

// SignalJournal persists scan outcomes for later analysis. Journal failures
// must never abort a cycle; callers log and continue.
type SignalJournal interface {
	Append(ctx context.Context, res *models.ScanCycleResult) error
	Close() error
}

// AlertPublisher fans sent alerts out to an external bus.
type AlertPublisher interface {
	Publish(ctx context.Context, res *models.ScanCycleResult) error
	Close() error
}

// Metrics records operational counters for the scan pipeline.
type Metrics interface {
	RecordCycle(symbol, dataSource string, seconds float64)
	RecordDecision(symbol string, action models.AlertAction)
	RecordAICall(symbol, outcome string)
	RecordLastPrice(symbol string, price float64)
	RecordLastScore(symbol string, score int)
	RecordError(kind string)
}
