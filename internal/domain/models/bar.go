package models

import "time"

// Bar represents one OHLCV observation for a fixed time interval.
// Bars are immutable once constructed; a later fetch for the same
// timestamp supersedes the old bar instead of mutating it.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Normalize returns a copy of the bar with its timestamp converted to UTC.
func (b Bar) Normalize() Bar {
	b.Timestamp = b.Timestamp.UTC()
	return b
}

// CacheMetadata summarizes a bar-store write: what was saved and its span.
type CacheMetadata struct {
	Symbol    string     `json:"symbol"`
	Timeframe string     `json:"timeframe"`
	Timezone  string     `json:"timezone"`
	Start     *time.Time `json:"start"`
	End       *time.Time `json:"end"`
	BarCount  int        `json:"bar_count"`
}

// Closes extracts the close series from a bar window.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high series from a bar window.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low series from a bar window.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume series from a bar window.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Timestamps extracts the timestamp series from a bar window.
func Timestamps(bars []Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Timestamp
	}
	return out
}
