package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	"BottomScan/pkg/logger"
)

// BarUpdater reconciles freshly fetched bars with stored history and repairs
// short data holes before handing the merged window back to the store.
type BarUpdater struct {
	store  repository.BarStore
	logger *logger.Logger
}

func NewBarUpdater(store repository.BarStore, log *logger.Logger) *BarUpdater {
	return &BarUpdater{store: store, logger: log}
}

// Merge deduplicates by normalized timestamp. When the same timestamp shows
// up in both inputs the incoming bar wins, by fetch recency, never by value
// comparison. Output is sorted ascending.
func (u *BarUpdater) Merge(existing, incoming []models.Bar) []models.Bar {
	merged := make(map[time.Time]models.Bar, len(existing)+len(incoming))
	for _, b := range existing {
		n := b.Normalize()
		merged[n.Timestamp] = n
	}
	for _, b := range incoming {
		n := b.Normalize()
		merged[n.Timestamp] = n
	}

	out := make([]models.Bar, 0, len(merged))
	for _, b := range merged {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// FillGaps synthesizes evenly spaced filler bars inside gaps wider than one
// expected interval but no wider than maxGapMinutes. Fillers are flat at the
// prior real bar's close with zero volume: a no-trade carry-forward, not an
// estimate. Wider gaps are a genuine outage and stay unfilled.
func (u *BarUpdater) FillGaps(bars []models.Bar, expectedIntervalMinutes, maxGapMinutes int) []models.Bar {
	if len(bars) == 0 {
		return []models.Bar{}
	}

	ordered := make([]models.Bar, len(bars))
	for i, b := range bars {
		ordered[i] = b.Normalize()
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })
	if len(ordered) < 2 {
		return ordered
	}

	result := make([]models.Bar, 0, len(ordered))
	result = append(result, ordered[0])
	for _, current := range ordered[1:] {
		prev := result[len(result)-1]
		gapMinutes := int(current.Timestamp.Sub(prev.Timestamp).Minutes())
		if gapMinutes > expectedIntervalMinutes && gapMinutes <= maxGapMinutes {
			missing := gapMinutes/expectedIntervalMinutes - 1
			span := current.Timestamp.Sub(prev.Timestamp)
			for step := 1; step <= missing; step++ {
				ts := prev.Timestamp.Add(span * time.Duration(step) / time.Duration(missing+1))
				result = append(result, models.Bar{
					Timestamp: ts.UTC(),
					Open:      prev.Close,
					High:      prev.Close,
					Low:       prev.Close,
					Close:     prev.Close,
					Volume:    0,
				})
			}
		}
		result = append(result, current)
	}
	return result
}

// UpdateStore runs the load → merge → repair → save pipeline for one key.
// The timeframe string supplies the expected bar interval; an unsupported
// suffix is an integration error and fails the update.
func (u *BarUpdater) UpdateStore(ctx context.Context, symbol string, tf repository.Timeframe, incoming []models.Bar, maxGapMinutes int) (models.CacheMetadata, error) {
	interval, err := tf.Minutes()
	if err != nil {
		return models.CacheMetadata{}, err
	}

	existing, err := u.store.Load(ctx, symbol, tf)
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("load %s/%s: %w", symbol, tf, err)
	}

	merged := u.Merge(existing, incoming)
	repaired := u.FillGaps(merged, interval, maxGapMinutes)

	meta, err := u.store.Save(ctx, symbol, tf, repaired)
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("save %s/%s: %w", symbol, tf, err)
	}

	if u.logger != nil {
		u.logger.Debug("store updated",
			logger.String("symbol", symbol),
			logger.String("timeframe", string(tf)),
			logger.Int("bars", meta.BarCount),
			logger.Int("incoming", len(incoming)),
		)
	}
	return meta, nil
}
