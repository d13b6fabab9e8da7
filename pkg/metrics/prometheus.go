package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"BottomScan/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycles    *prometheus.CounterVec
	decisions *prometheus.CounterVec
	aiCalls   *prometheus.CounterVec
	errors    *prometheus.CounterVec
	lastPrice *prometheus.GaugeVec
	lastScore *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cycles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bottomscan_cycles_total",
				Help: "Total number of scan cycles by data source",
			},
			[]string{"symbol", "source"},
		),
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bottomscan_decisions_total",
				Help: "Total number of alert decisions by action",
			},
			[]string{"symbol", "action"},
		),
		aiCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bottomscan_ai_calls_total",
				Help: "Total number of interpreter gate evaluations by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		errors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bottomscan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bottomscan_last_price",
				Help: "Last close price seen for a symbol",
			},
			[]string{"symbol"},
		),
		lastScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bottomscan_last_score",
				Help: "Last composite score for a symbol",
			},
			[]string{"symbol"},
		),
		duration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bottomscan_cycle_duration_seconds",
				Help:    "Duration of a full scan cycle in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
	}
}

// RecordCycle records one completed scan cycle.
func (r *Recorder) RecordCycle(symbol, dataSource string, seconds float64) {
	r.cycles.WithLabelValues(symbol, dataSource).Inc()
	r.duration.WithLabelValues(symbol).Observe(seconds)
}

// RecordDecision records an alert decision outcome.
func (r *Recorder) RecordDecision(symbol string, action models.AlertAction) {
	r.decisions.WithLabelValues(symbol, string(action)).Inc()
}

// RecordAICall records an interpreter gate outcome.
func (r *Recorder) RecordAICall(symbol, outcome string) {
	r.aiCalls.WithLabelValues(symbol, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last close price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLastScore records the last composite score for a symbol.
func (r *Recorder) RecordLastScore(symbol string, score int) {
	r.lastScore.WithLabelValues(symbol).Set(float64(score))
}
