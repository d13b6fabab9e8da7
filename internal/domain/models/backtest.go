package models

import "time"

// BacktestSignal is one accepted or strengthened event during replay.
type BacktestSignal struct {
	Timestamp  time.Time       `json:"timestamp"`
	Index      int             `json:"index"`
	Score      int             `json:"score"`
	Direction  SignalDirection `json:"direction"`
	Indicators []string        `json:"indicators"`
}

// BacktestTradeResult is the lookahead outcome of one signal.
type BacktestTradeResult struct {
	Signal             BacktestSignal `json:"signal"`
	EntryPrice         float64        `json:"entry_price"`
	MaxDrawdownPct     float64        `json:"max_drawdown_pct"`
	ReboundPct         float64        `json:"rebound_pct"`
	HitPrecisionTarget bool           `json:"hit_precision_target"`
	TimeToRecoveryBars *int           `json:"time_to_recovery_bars"` // nil if never recovered in window
}

// BacktestReport aggregates trade results into KPI estimates.
type BacktestReport struct {
	SignalCount            int      `json:"signal_count"`
	Precision              float64  `json:"precision"`
	AvgReboundPct          float64  `json:"avg_rebound_pct"`
	MaxDrawdownPct         float64  `json:"max_drawdown_pct"`
	AvgSignalDurationBars  float64  `json:"avg_signal_duration_bars"`
	SignalToNoiseRatio     float64  `json:"signal_to_noise_ratio"`
	AvgTimeToRecoveryBars  *float64 `json:"avg_time_to_recovery_bars"` // nil if nothing recovered
}
