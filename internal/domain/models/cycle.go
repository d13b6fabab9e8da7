package models

import "time"

// Data source tags for a scan cycle.
const (
	SourceProvider = "provider"
	SourceCache    = "cache"
)

// ScanCycleResult is the full outcome of one scan cycle for one symbol.
type ScanCycleResult struct {
	Timestamp  time.Time         `json:"timestamp"`
	Symbol     string            `json:"symbol"`
	Summary    SignalSummary     `json:"summary"`
	Results    []IndicatorResult `json:"results"`
	Decision   AlertDecision     `json:"decision"`
	AICalled   bool              `json:"ai_called"`
	AIReason   string            `json:"ai_reason"`
	AI         *AIInterpretation `json:"ai,omitempty"`
	DataSource string            `json:"data_source"`
	LastPrice  float64           `json:"last_price"`
}

// RuntimeSnapshot is the in-process counter view served by the status API.
type RuntimeSnapshot struct {
	CyclesTotal         int `json:"cycles_total"`
	AlertsSent          int `json:"alerts_sent"`
	AICalls             int `json:"ai_calls"`
	ProviderSourceCount int `json:"provider_source_count"`
	CacheSourceCount    int `json:"cache_source_count"`
}
