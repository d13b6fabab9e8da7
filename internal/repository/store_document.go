package repository

import (
	"fmt"
	"sort"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

// storeSchemaVersion tags the persisted document format.
const storeSchemaVersion = 1

// storeDocument is the persisted record for one (symbol, timeframe) key:
// schema version, identity, a fixed UTC timezone label, and the ordered
// bar list. Round-trips must be lossless for timestamps and prices.
type storeDocument struct {
	SchemaVersion int          `json:"schema_version"`
	Symbol        string       `json:"symbol"`
	Timeframe     string       `json:"timeframe"`
	Timezone      string       `json:"timezone"`
	Bars          []storedBar  `json:"bars"`
}

// storedBar keeps the ISO-8601 timestamp as a string so precision never
// depends on the decoder's time handling.
type storedBar struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// normalizeBars converts to UTC and sorts ascending; shared by every store
// implementation so Save semantics stay identical across backends.
func normalizeBars(bars []models.Bar) []models.Bar {
	out := make([]models.Bar, len(bars))
	for i, b := range bars {
		out[i] = b.Normalize()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

func buildDocument(symbol string, tf repository.Timeframe, normalized []models.Bar) storeDocument {
	doc := storeDocument{
		SchemaVersion: storeSchemaVersion,
		Symbol:        symbol,
		Timeframe:     string(tf),
		Timezone:      "UTC",
		Bars:          make([]storedBar, 0, len(normalized)),
	}
	for _, b := range normalized {
		doc.Bars = append(doc.Bars, storedBar{
			Timestamp: b.Timestamp.Format(time.RFC3339Nano),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	return doc
}

func (d storeDocument) toBars() ([]models.Bar, error) {
	bars := make([]models.Bar, 0, len(d.Bars))
	for _, sb := range d.Bars {
		ts, err := time.Parse(time.RFC3339Nano, sb.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse stored timestamp %q: %w", sb.Timestamp, err)
		}
		bars = append(bars, models.Bar{
			Timestamp: ts.UTC(),
			Open:      sb.Open,
			High:      sb.High,
			Low:       sb.Low,
			Close:     sb.Close,
			Volume:    sb.Volume,
		})
	}
	return bars, nil
}

func buildMetadata(symbol string, tf repository.Timeframe, normalized []models.Bar) models.CacheMetadata {
	meta := models.CacheMetadata{
		Symbol:    symbol,
		Timeframe: string(tf),
		Timezone:  "UTC",
		BarCount:  len(normalized),
	}
	if len(normalized) > 0 {
		start := normalized[0].Timestamp
		end := normalized[len(normalized)-1].Timestamp
		meta.Start = &start
		meta.End = &end
	}
	return meta
}
