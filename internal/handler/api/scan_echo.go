package api

import (
	"fmt"
	"time"

	models "BottomScan/internal/domain/models"
	domrepo "BottomScan/internal/domain/repository"
	"BottomScan/internal/services/indicator"
	"BottomScan/internal/usecase"
	xhttp "BottomScan/pkg/http"
	xlogger "BottomScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanEchoHandler exposes the scanner runtime over HTTP: health, status,
// per-symbol signal snapshots, on-demand backtests, and a websocket feed
// of live cycle results.
type ScanEchoHandler struct {
	logger      *xlogger.Logger
	runtime     *usecase.ScannerRuntime
	store       domrepo.BarStore
	engine      *indicator.Engine
	hub         *CycleHub
	environment string
}

func NewScanEchoHandler(
	log *xlogger.Logger,
	runtime *usecase.ScannerRuntime,
	store domrepo.BarStore,
	engine *indicator.Engine,
	hub *CycleHub,
	environment string,
) *ScanEchoHandler {
	return &ScanEchoHandler{
		logger:      log,
		runtime:     runtime,
		store:       store,
		engine:      engine,
		hub:         hub,
		environment: environment,
	}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/ws/cycles", h.CycleStream)

	g := e.Group("/api")
	g.GET("/status", h.Status)
	g.GET("/signals/:symbol", h.Signals)
	g.GET("/bars/:symbol", h.Bars)
	g.POST("/backtest", h.Backtest)
}

func (h *ScanEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *ScanEchoHandler) Status(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.StatusResponse{
		Environment: h.environment,
		Symbols:     h.runtime.Symbols(),
		Timeframe:   string(h.runtime.Timeframe()),
		Counters:    h.runtime.Snapshot(),
	})
}

func (h *ScanEchoHandler) Signals(c echo.Context) error {
	symbol := c.Param("symbol")
	res, ok := h.runtime.LastCycle(symbol)
	if !ok {
		return xhttp.NotFoundResponse(c, fmt.Sprintf("no cycle recorded for %s", symbol))
	}
	return xhttp.SuccessResponse(c, res)
}

// Bars returns the stored bars for a symbol, newest last. Supports
// ?limit=N and ?since=<RFC3339 or unix seconds> for quick inspection.
func (h *ScanEchoHandler) Bars(c echo.Context) error {
	symbol := c.Param("symbol")
	tf := domrepo.NormalizeTimeframe(c.QueryParam("timeframe"))

	bars, err := h.store.Load(c.Request().Context(), symbol, tf)
	if err != nil {
		h.logger.Error("bars load failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{})
	if !since.IsZero() {
		i := 0
		for i < len(bars) && bars[i].Timestamp.Before(since) {
			i++
		}
		bars = bars[i:]
	}
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0)
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}

	return xhttp.SuccessResponse(c, map[string]any{
		"symbol":    symbol,
		"timeframe": string(tf),
		"count":     len(bars),
		"bars":      bars,
	})
}

func (h *ScanEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	tf := domrepo.NormalizeTimeframe(req.Timeframe)

	ctx := c.Request().Context()
	bars, err := h.store.Load(ctx, req.Symbol, tf)
	if err != nil {
		h.logger.Error("backtest load failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if len(bars) == 0 {
		return xhttp.NotFoundResponse(c, fmt.Sprintf("no stored bars for %s/%s", req.Symbol, tf))
	}

	sim := usecase.NewBacktestSimulator(h.engine,
		usecase.WithCooldownBars(req.CooldownBars),
		usecase.WithStrengthenDelta(req.StrengthenDelta),
		usecase.WithPrecisionTarget(req.PrecisionTargetPct),
		usecase.WithLookahead(req.LookaheadBars),
	)
	signals, trades, report, err := sim.Run(bars, req.WarmupBars)
	if err != nil {
		h.logger.Error("backtest run failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, models.BacktestResponse{
		Symbol:    req.Symbol,
		Timeframe: string(tf),
		BarCount:  len(bars),
		Signals:   signals,
		Trades:    trades,
		Report:    report,
	})
}

// CycleStream upgrades to a websocket and streams cycle results until the
// client disconnects.
func (h *ScanEchoHandler) CycleStream(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request())
}
