package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
	"BottomScan/internal/domain/service"
	internalrepo "BottomScan/internal/repository"
	"BottomScan/internal/services/ai"
	"BottomScan/internal/services/indicator"
	applogger "BottomScan/pkg/logger"
)

type stubProvider struct {
	bars []models.Bar
	err  error
}

func (p *stubProvider) Fetch(context.Context, string, repository.Timeframe) ([]models.Bar, error) {
	return p.bars, p.err
}

type capturingNotifier struct {
	msgs []string
}

func (n *capturingNotifier) Send(_ context.Context, text string) error {
	n.msgs = append(n.msgs, text)
	return nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestRuntime(t *testing.T, provider repository.Provider, store repository.BarStore, notifier service.Notifier) *ScannerRuntime {
	t.Helper()
	gate := ai.NewGate(ai.NewRuleBased(), ai.NewUsageLimiter(3, 20))
	return newTestRuntimeWithGate(t, provider, store, notifier, gate)
}

func newTestRuntimeWithGate(t *testing.T, provider repository.Provider, store repository.BarStore, notifier service.Notifier, gate *ai.Gate) *ScannerRuntime {
	t.Helper()
	log := testLogger(t)
	engine := indicator.NewEngine([]service.Indicator{dipIndicator{trigger: 95}},
		indicator.WithThresholds(5, 5, 2),
	)
	return NewScannerRuntime(
		ScannerConfig{Symbols: []string{"AAPL"}, Timeframe: repository.TF1h, MaxGapMinutes: 720},
		provider,
		store,
		NewBarUpdater(store, log),
		engine,
		NewAlertEngine(120, 3),
		gate,
		notifier,
		log,
	)
}

func dippingBars(n int) []models.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	closes[n-1] = 90
	return replayBars(closes)
}

func TestScanSymbolSendsAlert(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	notifier := &capturingNotifier{}
	rt := newTestRuntime(t, &stubProvider{bars: dippingBars(120)}, store, notifier)

	res, err := rt.ScanSymbol(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Symbol != "AAPL" {
		t.Fatalf("symbol must be upper-cased, got %q", res.Symbol)
	}
	if res.DataSource != models.SourceProvider {
		t.Fatalf("expected provider source, got %q", res.DataSource)
	}
	if res.Decision.Action != models.ActionSend {
		t.Fatalf("dip must send, got %+v", res.Decision)
	}
	if !res.AICalled || res.AI == nil {
		t.Fatalf("flagged cycle must call the interpreter, got %+v", res)
	}
	if res.LastPrice != 90 {
		t.Fatalf("last price must be the final close, got %v", res.LastPrice)
	}

	if len(notifier.msgs) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.msgs))
	}
	text := notifier.msgs[0]
	if !strings.Contains(text, "AAPL") || !strings.Contains(text, "Score 5") {
		t.Fatalf("alert text missing fields: %q", text)
	}
	if !strings.Contains(text, "dip") {
		t.Fatalf("alert text must list contributors: %q", text)
	}

	// The store pipeline must have persisted the merged history.
	stored, err := store.Load(context.Background(), "AAPL", repository.TF1h)
	if err != nil || len(stored) != 120 {
		t.Fatalf("store not updated: %v %d", err, len(stored))
	}

	snap := rt.Snapshot()
	if snap.CyclesTotal != 1 || snap.AlertsSent != 1 || snap.AICalls != 1 || snap.ProviderSourceCount != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	last, ok := rt.LastCycle("AAPL")
	if !ok || last.Timestamp != res.Timestamp {
		t.Fatalf("last cycle not recorded")
	}
}

func TestScanSymbolCacheFallback(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	ctx := context.Background()
	if _, err := store.Save(ctx, "AAPL", repository.TF1h, dippingBars(80)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	notifier := &capturingNotifier{}
	rt := newTestRuntime(t, &stubProvider{err: errors.New("provider down")}, store, notifier)

	res, err := rt.ScanSymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("scan must degrade to cache: %v", err)
	}
	if res.DataSource != models.SourceCache {
		t.Fatalf("expected cache source, got %q", res.DataSource)
	}
	if res.Decision.Action != models.ActionSend {
		t.Fatalf("cached history must still score, got %+v", res.Decision)
	}

	snap := rt.Snapshot()
	if snap.CacheSourceCount != 1 {
		t.Fatalf("cache fallback not counted: %+v", snap)
	}
}

func TestScanSymbolNoData(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	rt := newTestRuntime(t, &stubProvider{err: errors.New("provider down")}, store, &capturingNotifier{})

	if _, err := rt.ScanSymbol(context.Background(), "AAPL"); err == nil {
		t.Fatalf("no provider and empty cache must fail the cycle")
	}
}

type fixedInterpreter struct{ payload string }

func (f fixedInterpreter) ProviderName() string { return "fixed" }
func (f fixedInterpreter) Generate(context.Context, string) (string, error) {
	return f.payload, nil
}

func TestScanSymbolFailsOnBrokenInterpreterContract(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	notifier := &capturingNotifier{}
	gate := ai.NewGate(fixedInterpreter{payload: `{"regime":"r","confidence":150,"summary":"s"}`},
		ai.NewUsageLimiter(3, 20))
	rt := newTestRuntimeWithGate(t, &stubProvider{bars: dippingBars(120)}, store, notifier, gate)

	if _, err := rt.ScanSymbol(context.Background(), "AAPL"); err == nil {
		t.Fatalf("out-of-range confidence must fail the cycle")
	}
	if len(notifier.msgs) != 0 {
		t.Fatalf("failed cycle must not notify, got %d messages", len(notifier.msgs))
	}
}

func TestScanSymbolCooldownAcrossCycles(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	notifier := &capturingNotifier{}
	rt := newTestRuntime(t, &stubProvider{bars: dippingBars(120)}, store, notifier)
	ctx := context.Background()

	if _, err := rt.ScanSymbol(ctx, "AAPL"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	res, err := rt.ScanSymbol(ctx, "AAPL")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if res.Decision.Action != models.ActionSuppressCooldown {
		t.Fatalf("immediate rescan must hit cooldown, got %+v", res.Decision)
	}
	if len(notifier.msgs) != 1 {
		t.Fatalf("suppressed cycle must not notify, got %d messages", len(notifier.msgs))
	}
}

func TestScanAllSurvivesSymbolFailure(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	rt := newTestRuntime(t, &stubProvider{err: errors.New("provider down")}, store, &capturingNotifier{})

	results := rt.ScanAll(context.Background())
	if len(results) != 0 {
		t.Fatalf("failing symbol must be skipped, got %d results", len(results))
	}
}

func TestCycleListener(t *testing.T) {
	store := internalrepo.NewMemoryBarStore()
	rt := newTestRuntime(t, &stubProvider{bars: dippingBars(120)}, store, &capturingNotifier{})

	var seen []models.ScanCycleResult
	rt.AddCycleListener(func(res models.ScanCycleResult) { seen = append(seen, res) })

	if _, err := rt.ScanSymbol(context.Background(), "AAPL"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(seen) != 1 || seen[0].Symbol != "AAPL" {
		t.Fatalf("listener must fire per cycle, got %+v", seen)
	}
}
