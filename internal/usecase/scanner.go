package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	"BottomScan/internal/domain/service"
	"BottomScan/internal/services/ai"
	"BottomScan/pkg/logger"
)

// indicatorEngine is the slice of the scoring engine the scanner needs.
type indicatorEngine interface {
	Run(bars []models.Bar) ([]models.IndicatorResult, models.SignalSummary, error)
}

// ScannerConfig carries the per-runtime scan parameters.
type ScannerConfig struct {
	Symbols       []string
	Timeframe     repository.Timeframe
	MaxGapMinutes int
}

// ScannerRuntime drives one full scan cycle per symbol: fetch (with cache
// fallback), merge and repair the store, score, decide, optionally augment
// with the interpreter, notify, and journal. Journal and publisher failures
// are logged and never abort a cycle.
type ScannerRuntime struct {
	cfg       ScannerConfig
	provider  repository.Provider
	store     repository.BarStore
	updater   *BarUpdater
	engine    indicatorEngine
	alerts    *AlertEngine
	gate      *ai.Gate
	notifier  service.Notifier
	converter service.Converter
	journal   repository.SignalJournal
	publisher repository.AlertPublisher
	metrics   repository.Metrics
	logger    *logger.Logger

	mu        sync.RWMutex
	snapshot  models.RuntimeSnapshot
	last      map[string]models.ScanCycleResult
	listeners []func(models.ScanCycleResult)
}

type ScannerOption func(*ScannerRuntime)

// WithJournal attaches an optional cycle journal.
func WithJournal(j repository.SignalJournal) ScannerOption {
	return func(r *ScannerRuntime) { r.journal = j }
}

// WithPublisher attaches an optional alert bus.
func WithPublisher(p repository.AlertPublisher) ScannerOption {
	return func(r *ScannerRuntime) { r.publisher = p }
}

// WithMetrics attaches the metrics recorder.
func WithMetrics(m repository.Metrics) ScannerOption {
	return func(r *ScannerRuntime) { r.metrics = m }
}

// WithConverter attaches a secondary-currency converter for alert text.
func WithConverter(c service.Converter) ScannerOption {
	return func(r *ScannerRuntime) { r.converter = c }
}

func NewScannerRuntime(
	cfg ScannerConfig,
	provider repository.Provider,
	store repository.BarStore,
	updater *BarUpdater,
	engine indicatorEngine,
	alerts *AlertEngine,
	gate *ai.Gate,
	notifier service.Notifier,
	log *logger.Logger,
	opts ...ScannerOption,
) *ScannerRuntime {
	r := &ScannerRuntime{
		cfg:      cfg,
		provider: provider,
		store:    store,
		updater:  updater,
		engine:   engine,
		alerts:   alerts,
		gate:     gate,
		notifier: notifier,
		logger:   log,
		last:     make(map[string]models.ScanCycleResult),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddCycleListener registers a callback fired after every completed cycle.
// Callbacks run on the scan goroutine and must not block.
func (r *ScannerRuntime) AddCycleListener(fn func(models.ScanCycleResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Snapshot returns the in-process counter view.
func (r *ScannerRuntime) Snapshot() models.RuntimeSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// LastCycle returns the most recent cycle result for a symbol.
func (r *ScannerRuntime) LastCycle(symbol string) (models.ScanCycleResult, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.last[strings.ToUpper(symbol)]
	return res, ok
}

// Timeframe returns the configured scan resolution.
func (r *ScannerRuntime) Timeframe() repository.Timeframe {
	return r.cfg.Timeframe
}

// Symbols returns the configured symbol list.
func (r *ScannerRuntime) Symbols() []string {
	out := make([]string, len(r.cfg.Symbols))
	copy(out, r.cfg.Symbols)
	return out
}

// ScanAll runs one cycle for every configured symbol, sequentially so one
// slow provider call never stampedes the rest. Per-symbol failures are
// logged and do not stop the sweep.
func (r *ScannerRuntime) ScanAll(ctx context.Context) []models.ScanCycleResult {
	results := make([]models.ScanCycleResult, 0, len(r.cfg.Symbols))
	for _, symbol := range r.cfg.Symbols {
		if ctx.Err() != nil {
			break
		}
		res, err := r.ScanSymbol(ctx, symbol)
		if err != nil {
			r.logger.Error("scan cycle failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
			r.recordError("cycle")
			continue
		}
		results = append(results, res)
	}
	return results
}

// ScanSymbol runs one full cycle for one symbol.
func (r *ScannerRuntime) ScanSymbol(ctx context.Context, symbol string) (models.ScanCycleResult, error) {
	start := time.Now()
	now := start.UTC()
	symbol = strings.ToUpper(symbol)

	bars, source, err := r.refresh(ctx, symbol)
	if err != nil {
		return models.ScanCycleResult{}, err
	}
	if len(bars) == 0 {
		return models.ScanCycleResult{}, fmt.Errorf("%s: no bars from provider or store", symbol)
	}

	results, summary, err := r.engine.Run(bars)
	if err != nil {
		return models.ScanCycleResult{}, fmt.Errorf("score %s: %w", symbol, err)
	}

	decision := r.alerts.Decide(symbol, summary, results, now)

	invocation, err := r.gate.MaybeCall(ctx, symbol, r.cfg.Timeframe, summary, results, decision, now)
	if err != nil {
		// Interpreter errors include broken response contracts; those fail
		// the cycle rather than shipping an alert built on bad data.
		r.recordError("ai")
		return models.ScanCycleResult{}, fmt.Errorf("augment %s: %w", symbol, err)
	}

	res := models.ScanCycleResult{
		Timestamp:  now,
		Symbol:     symbol,
		Summary:    summary,
		Results:    results,
		Decision:   decision,
		AICalled:   invocation.Called,
		AIReason:   invocation.Reason,
		AI:         invocation.Result,
		DataSource: source,
		LastPrice:  bars[len(bars)-1].Close,
	}

	if decision.ShouldSend {
		// Safe notifier swallows delivery errors; a dead channel must not
		// stop the scan loop.
		_ = r.notifier.Send(ctx, r.formatAlert(res))
		if r.publisher != nil {
			if err := r.publisher.Publish(ctx, &res); err != nil {
				r.logger.Warn("alert publish failed",
					logger.String("symbol", symbol),
					logger.Error(err),
				)
				r.recordError("publish")
			}
		}
	}

	if r.journal != nil {
		if err := r.journal.Append(ctx, &res); err != nil {
			r.logger.Warn("journal append failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
			r.recordError("journal")
		}
	}

	r.record(res, time.Since(start))
	r.logger.Info("scan cycle",
		logger.String("symbol", symbol),
		logger.String("source", source),
		logger.Int("score", summary.TotalScore),
		logger.String("action", string(decision.Action)),
		logger.Bool("ai_called", invocation.Called),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

// refresh fetches fresh bars and runs the store pipeline. A provider error
// or an empty fetch degrades to the stored history rather than failing.
func (r *ScannerRuntime) refresh(ctx context.Context, symbol string) ([]models.Bar, string, error) {
	incoming, err := r.provider.Fetch(ctx, symbol, r.cfg.Timeframe)
	if err != nil || len(incoming) == 0 {
		if err != nil {
			r.logger.Warn("provider fetch failed, using cache",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
			r.recordError("provider")
		}
		cached, loadErr := r.store.Load(ctx, symbol, r.cfg.Timeframe)
		if loadErr != nil {
			return nil, "", fmt.Errorf("load cache %s: %w", symbol, loadErr)
		}
		return cached, models.SourceCache, nil
	}

	if _, err := r.updater.UpdateStore(ctx, symbol, r.cfg.Timeframe, incoming, r.cfg.MaxGapMinutes); err != nil {
		return nil, "", fmt.Errorf("update store %s: %w", symbol, err)
	}
	merged, err := r.store.Load(ctx, symbol, r.cfg.Timeframe)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", symbol, err)
	}
	return merged, models.SourceProvider, nil
}

func (r *ScannerRuntime) record(res models.ScanCycleResult, took time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordCycle(res.Symbol, res.DataSource, took.Seconds())
		r.metrics.RecordDecision(res.Symbol, res.Decision.Action)
		r.metrics.RecordLastPrice(res.Symbol, res.LastPrice)
		r.metrics.RecordLastScore(res.Symbol, res.Summary.TotalScore)
		if res.AICalled {
			r.metrics.RecordAICall(res.Symbol, "called")
		} else {
			r.metrics.RecordAICall(res.Symbol, res.AIReason)
		}
	}

	r.mu.Lock()
	r.snapshot.CyclesTotal++
	if res.Decision.ShouldSend {
		r.snapshot.AlertsSent++
	}
	if res.AICalled {
		r.snapshot.AICalls++
	}
	switch res.DataSource {
	case models.SourceProvider:
		r.snapshot.ProviderSourceCount++
	case models.SourceCache:
		r.snapshot.CacheSourceCount++
	}
	r.last[res.Symbol] = res
	listeners := make([]func(models.ScanCycleResult), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(res)
	}
}

func (r *ScannerRuntime) recordError(kind string) {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
}

// formatAlert renders the outbound alert text.
func (r *ScannerRuntime) formatAlert(res models.ScanCycleResult) string {
	var b strings.Builder

	header := "Bottom signal"
	if res.Decision.Action == models.ActionSendStrengthened {
		header = "Strengthened bottom signal"
	}
	fmt.Fprintf(&b, "%s: %s (%s)\n", header, res.Symbol, res.Decision.Direction)
	fmt.Fprintf(&b, "Score %d | S-tier hits %d\n", res.Summary.TotalScore, res.Summary.STierHits)

	if r.converter != nil {
		fmt.Fprintf(&b, "Price %.2f USD (%.0f %s)\n",
			res.LastPrice, r.converter.Convert(res.LastPrice), r.converter.Label())
	} else {
		fmt.Fprintf(&b, "Price %.2f USD\n", res.LastPrice)
	}

	contributors := Contributors(res.Results, res.Decision.Direction)
	if len(contributors) > 0 {
		fmt.Fprintf(&b, "Contributors: %s\n", strings.Join(contributors, ", "))
	}

	if res.AI != nil {
		fmt.Fprintf(&b, "Read: %s (%s, confidence %d)\n",
			res.AI.Summary, res.AI.Regime, res.AI.Confidence)
		if len(res.AI.Risks) > 0 {
			fmt.Fprintf(&b, "Risks: %s\n", strings.Join(res.AI.Risks, "; "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
