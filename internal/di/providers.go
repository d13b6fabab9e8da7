package di

import (
	"context"
	"fmt"
	"time"

	"BottomScan/internal/domain/repository"
	"BottomScan/internal/domain/service"
	"BottomScan/internal/handler/api"
	internalrepo "BottomScan/internal/repository"
	"BottomScan/internal/services/ai"
	"BottomScan/internal/services/indicator"
	"BottomScan/internal/services/marketdata"
	"BottomScan/internal/services/notify"
	"BottomScan/internal/usecase"
	pkgch "BottomScan/pkg/clickhouse"
	"BottomScan/pkg/config"
	xhttp "BottomScan/pkg/http"
	pkgkafka "BottomScan/pkg/kafka"
	applogger "BottomScan/pkg/logger"
	"BottomScan/pkg/metrics"
	"BottomScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore selects the bar store backend from config.
func ProvideBarStore(cfg *config.Config) (repository.BarStore, error) {
	switch cfg.Store.Backend {
	case "redis":
		return internalrepo.NewRedisBarStore(internalrepo.RedisBarStoreConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})
	case "memory":
		return internalrepo.NewMemoryBarStore(), nil
	default:
		return internalrepo.NewFileBarStore(cfg.Store.Dir)
	}
}

// ProvideProvider creates the market-data provider.
func ProvideProvider(cfg *config.Config) repository.Provider {
	return marketdata.NewFinnhubProvider(cfg.Finnhub.APIKey,
		marketdata.WithLookback(cfg.Finnhub.Lookback),
	)
}

// ProvideBarUpdater creates the store merge/repair pipeline.
func ProvideBarUpdater(store repository.BarStore, log *applogger.Logger) *usecase.BarUpdater {
	return usecase.NewBarUpdater(store, log)
}

// ProvideIndicatorEngine creates the scoring engine with the full
// evaluator set and configured thresholds.
func ProvideIndicatorEngine(cfg *config.Config) *indicator.Engine {
	return indicator.NewEngine(indicator.DefaultSet(),
		indicator.WithThresholds(cfg.Scoring.ScoreThreshold, cfg.Scoring.AICallThreshold, cfg.Scoring.MinSTierHits),
		indicator.WithSTier(indicator.DefaultSTier()),
	)
}

// ProvideAlertEngine creates the alert decision state machine.
func ProvideAlertEngine(cfg *config.Config) *usecase.AlertEngine {
	return usecase.NewAlertEngine(cfg.Alerts.CooldownMinutes, cfg.Alerts.StrengthenDelta)
}

// ProvideInterpreter selects the augmentation provider from config.
func ProvideInterpreter(cfg *config.Config) service.Interpreter {
	if cfg.AI.Provider == "anthropic" {
		return ai.NewAnthropic(cfg.AI.APIKey)
	}
	return ai.NewRuleBased()
}

// ProvideGate creates the rate-limited interpreter gate.
func ProvideGate(cfg *config.Config, provider service.Interpreter) *ai.Gate {
	limiter := ai.NewUsageLimiter(cfg.AI.MaxPerSymbolDaily, cfg.AI.MaxGlobalDaily)
	return ai.NewGate(provider, limiter)
}

// ProvideNotifier selects the alert channel and wraps it so delivery
// failures never propagate into the scan loop.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) service.Notifier {
	var inner service.Notifier
	if cfg.Notifier.Type == "telegram" {
		inner = notify.NewTelegram(cfg.Notifier.Telegram.BotToken, cfg.Notifier.Telegram.ChatID)
	} else {
		inner = notify.NewConsole()
	}
	return notify.NewSafe(inner, log)
}

// ProvideConverter creates the secondary-currency converter for alert text.
func ProvideConverter(cfg *config.Config) service.Converter {
	return notify.NewFixedRateConverter(cfg.Notifier.Currency.Rate, cfg.Notifier.Currency.Label)
}

// ProvideClickHouseClient creates the ClickHouse client, or nil when the
// journal is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Journal.ClickHouse.Host),
		pkgch.WithPort(cfg.Journal.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Journal.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Journal.ClickHouse.User, cfg.Journal.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.Journal.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.Journal.ClickHouse.AsyncInsert, cfg.Journal.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.Journal.ClickHouse.DialTimeout, cfg.Journal.ClickHouse.ReadTimeout, cfg.Journal.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.Journal.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideJournal creates the cycle journal, or nil when disabled.
func ProvideJournal(cfg *config.Config, chClient *pkgch.Client) (repository.SignalJournal, error) {
	if !cfg.Journal.Enabled || chClient == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	journal, err := internalrepo.NewClickHouseJournal(ctx, chClient.DB(), cfg.Journal.Table)
	if err != nil {
		return nil, fmt.Errorf("clickhouse journal: %w", err)
	}
	return journal, nil
}

// ProvidePublisher creates the Kafka alert bus, or nil when disabled. When
// a logs topic is configured, aggregated error logs are shipped over the
// same producer.
func ProvidePublisher(cfg *config.Config, log *applogger.Logger) (repository.AlertPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	pub := internalrepo.NewKafkaAlertPublisher(producer, cfg.Kafka.Topic)
	if cfg.Kafka.LogsTopic != "" {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.LogsTopic,
			Publisher:      pub,
		})
	}
	return pub, nil
}

// ProvideScannerRuntime assembles the full scan pipeline.
func ProvideScannerRuntime(
	cfg *config.Config,
	provider repository.Provider,
	store repository.BarStore,
	updater *usecase.BarUpdater,
	engine *indicator.Engine,
	alerts *usecase.AlertEngine,
	gate *ai.Gate,
	notifier service.Notifier,
	converter service.Converter,
	journal repository.SignalJournal,
	publisher repository.AlertPublisher,
	m repository.Metrics,
	log *applogger.Logger,
) *usecase.ScannerRuntime {
	return usecase.NewScannerRuntime(
		usecase.ScannerConfig{
			Symbols:       cfg.Scan.Symbols,
			Timeframe:     repository.NormalizeTimeframe(cfg.Scan.Timeframe),
			MaxGapMinutes: cfg.Scan.MaxGapMinutes,
		},
		provider, store, updater, engine, alerts, gate, notifier, log,
		usecase.WithConverter(converter),
		usecase.WithJournal(journal),
		usecase.WithPublisher(publisher),
		usecase.WithMetrics(m),
	)
}

// ProvideHandler builds the HTTP handler and subscribes the websocket hub
// to the cycle feed.
func ProvideHandler(
	cfg *config.Config,
	log *applogger.Logger,
	runtime *usecase.ScannerRuntime,
	store repository.BarStore,
	engine *indicator.Engine,
) xhttp.Handler {
	hub := api.NewCycleHub(log)
	runtime.AddCycleListener(hub.Broadcast)
	return api.NewScanEchoHandler(log, runtime, store, engine, hub, cfg.Environment)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	runtime *usecase.ScannerRuntime,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	journal repository.SignalJournal,
	publisher repository.AlertPublisher,
) *server.App {
	app := server.New(cfg, log, runtime, handler)
	app.SetClickHouse(chClient)
	app.SetJournal(journal)
	app.SetPublisher(publisher)
	return app
}
