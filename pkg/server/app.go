package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "BottomScan/internal/domain/repository"
	"BottomScan/internal/usecase"
	pkgch "BottomScan/pkg/clickhouse"
	"BottomScan/pkg/config"
	xhttp "BottomScan/pkg/http"
	applogger "BottomScan/pkg/logger"
)

// App encapsulates the entire application lifecycle: the scan loop, the
// HTTP server, and the infrastructure clients that need an orderly close.
type App struct {
	cfg         *config.Config
	logger      *applogger.Logger
	runtime     *usecase.ScannerRuntime
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	chClient    *pkgch.Client
	journal     domrepo.SignalJournal
	publisher   domrepo.AlertPublisher
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	runtime *usecase.ScannerRuntime,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		logger:      log,
		runtime:     runtime,
		httpHandler: handler,
	}
}

// SetClickHouse registers the ClickHouse client for lifecycle management.
func (a *App) SetClickHouse(c *pkgch.Client) { a.chClient = c }

// SetJournal registers the cycle journal for lifecycle management.
func (a *App) SetJournal(j domrepo.SignalJournal) { a.journal = j }

// SetPublisher registers the alert bus for lifecycle management.
func (a *App) SetPublisher(p domrepo.AlertPublisher) { a.publisher = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	go a.scanLoop(ctx)
	a.logger.Info("scanner started",
		applogger.Strings("symbols", a.cfg.Scan.Symbols),
		applogger.String("timeframe", a.cfg.Scan.Timeframe),
		applogger.Duration("interval", a.cfg.Scan.Interval),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// scanLoop runs one immediate sweep, then one per configured interval.
func (a *App) scanLoop(ctx context.Context) {
	a.runtime.ScanAll(ctx)

	ticker := time.NewTicker(a.cfg.Scan.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runtime.ScanAll(ctx)
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Flush and detach the log collector before its publisher goes away.
	a.logger.RemoveCollector()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("journal close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
