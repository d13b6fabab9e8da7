package models

// BacktestRequest is the replay request body. Defaults mirror the
// production scoring configuration.
type BacktestRequest struct {
	Symbol             string  `json:"symbol" validate:"required"`
	Timeframe          string  `json:"timeframe" default:"1h"`
	WarmupBars         int     `json:"warmup_bars" default:"60" validate:"gte=0"`
	CooldownBars       int     `json:"cooldown_bars" default:"8" validate:"gte=1"`
	LookaheadBars      int     `json:"lookahead_bars" default:"130" validate:"gte=1"`
	PrecisionTargetPct float64 `json:"precision_target_pct" default:"3.0" validate:"gt=0,lte=100"`
	StrengthenDelta    int     `json:"strengthen_delta" default:"3" validate:"gte=0"`
}

// BacktestResponse bundles the replay outcome.
type BacktestResponse struct {
	Symbol    string                `json:"symbol"`
	Timeframe string                `json:"timeframe"`
	BarCount  int                   `json:"bar_count"`
	Signals   []BacktestSignal      `json:"signals"`
	Trades    []BacktestTradeResult `json:"trades"`
	Report    BacktestReport        `json:"report"`
}

// StatusResponse is the runtime status view.
type StatusResponse struct {
	Environment string          `json:"environment"`
	Symbols     []string        `json:"symbols"`
	Timeframe   string          `json:"timeframe"`
	Counters    RuntimeSnapshot `json:"counters"`
}
