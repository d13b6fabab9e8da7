package usecase

import (
	"fmt"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/services/indicator"
)

// BacktestSimulator replays the indicator engine over an expanding window to
// estimate precision/recall-style KPIs. Cooldown and strengthening mirror
// the live alert engine but are expressed in bar counts, not wall clock.
type BacktestSimulator struct {
	engine             *indicator.Engine
	cooldownBars       int
	strengthenDelta    int
	precisionTargetPct float64
	lookaheadBars      int
}

// BacktestOption configures a simulator.
type BacktestOption func(*BacktestSimulator)

func WithCooldownBars(n int) BacktestOption {
	return func(s *BacktestSimulator) { s.cooldownBars = n }
}

func WithStrengthenDelta(d int) BacktestOption {
	return func(s *BacktestSimulator) { s.strengthenDelta = d }
}

func WithPrecisionTarget(pct float64) BacktestOption {
	return func(s *BacktestSimulator) { s.precisionTargetPct = pct }
}

func WithLookahead(bars int) BacktestOption {
	return func(s *BacktestSimulator) { s.lookaheadBars = bars }
}

func NewBacktestSimulator(engine *indicator.Engine, opts ...BacktestOption) *BacktestSimulator {
	s := &BacktestSimulator{
		engine:             engine,
		cooldownBars:       8,
		strengthenDelta:    3,
		precisionTargetPct: 3.0,
		lookaheadBars:      130,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run replays history and aggregates the KPI report.
func (s *BacktestSimulator) Run(bars []models.Bar, warmupBars int) ([]models.BacktestSignal, []models.BacktestTradeResult, models.BacktestReport, error) {
	signals, err := s.GenerateSignals(bars, warmupBars)
	if err != nil {
		return nil, nil, models.BacktestReport{}, err
	}
	results := make([]models.BacktestTradeResult, 0, len(signals))
	for _, sig := range signals {
		results = append(results, s.EvaluateSignal(sig, bars))
	}
	return signals, results, s.buildReport(results), nil
}

// GenerateSignals walks each bar index past warmup, evaluating bars[0..idx]
// inclusive and applying bar-count cooldown with the strengthen override.
func (s *BacktestSimulator) GenerateSignals(bars []models.Bar, warmupBars int) ([]models.BacktestSignal, error) {
	if len(bars) <= warmupBars {
		return nil, nil
	}

	var signals []models.BacktestSignal
	lastIndex := make(map[models.SignalDirection]int)
	lastScore := make(map[models.SignalDirection]int)

	for idx := warmupBars; idx < len(bars); idx++ {
		window := bars[:idx+1]
		results, summary, err := s.engine.Run(window)
		if err != nil {
			return nil, fmt.Errorf("replay index %d: %w", idx, err)
		}
		direction := summary.StrongestSignal
		if !summary.ShouldAlert || direction == models.Neutral {
			continue
		}

		prevIdx, seen := lastIndex[direction]
		inCooldown := seen && idx-prevIdx < s.cooldownBars
		strengthened := false
		if prev, ok := lastScore[direction]; ok {
			strengthened = summary.TotalScore >= prev+s.strengthenDelta
		} else {
			strengthened = true
		}

		if inCooldown && !strengthened {
			continue
		}

		signals = append(signals, models.BacktestSignal{
			Timestamp:  window[len(window)-1].Timestamp.UTC(),
			Index:      idx,
			Score:      summary.TotalScore,
			Direction:  direction,
			Indicators: Contributors(results, direction),
		})
		lastIndex[direction] = idx
		lastScore[direction] = summary.TotalScore
	}
	return signals, nil
}

// EvaluateSignal looks ahead a fixed number of bars from the signal to
// compute the trade outcome: entry at the signal bar close, worst drawdown,
// best rebound, target hit, and bars to first recovery.
func (s *BacktestSimulator) EvaluateSignal(sig models.BacktestSignal, bars []models.Bar) models.BacktestTradeResult {
	entry := bars[sig.Index].Close
	end := min(len(bars), sig.Index+s.lookaheadBars+1)
	future := bars[sig.Index+1 : end]
	if len(future) == 0 {
		return models.BacktestTradeResult{Signal: sig, EntryPrice: entry}
	}

	minLow := future[0].Low
	maxHigh := future[0].High
	for _, b := range future {
		if b.Low < minLow {
			minLow = b.Low
		}
		if b.High > maxHigh {
			maxHigh = b.High
		}
	}

	var mdd, rebound float64
	if entry != 0 {
		mdd = (minLow - entry) / entry * 100
		rebound = (maxHigh - entry) / entry * 100
	}

	var ttr *int
	for i, b := range future {
		if b.High >= entry {
			n := i + 1
			ttr = &n
			break
		}
	}

	return models.BacktestTradeResult{
		Signal:             sig,
		EntryPrice:         entry,
		MaxDrawdownPct:     mdd,
		ReboundPct:         rebound,
		HitPrecisionTarget: rebound >= s.precisionTargetPct,
		TimeToRecoveryBars: ttr,
	}
}

func (s *BacktestSimulator) buildReport(results []models.BacktestTradeResult) models.BacktestReport {
	if len(results) == 0 {
		return models.BacktestReport{}
	}

	var hits int
	var reboundSum float64
	worstMDD := results[0].MaxDrawdownPct
	var recoverySum float64
	var recoveryCount int
	var durationSum float64

	for _, r := range results {
		if r.HitPrecisionTarget {
			hits++
		}
		reboundSum += r.ReboundPct
		if r.MaxDrawdownPct < worstMDD {
			worstMDD = r.MaxDrawdownPct
		}
		if r.TimeToRecoveryBars != nil {
			recoverySum += float64(*r.TimeToRecoveryBars)
			recoveryCount++
			durationSum += float64(*r.TimeToRecoveryBars)
		} else {
			durationSum += float64(s.lookaheadBars)
		}
	}

	misses := len(results) - hits
	snr := float64(hits)
	if misses > 0 {
		snr = float64(hits) / float64(misses)
	}

	var avgTTR *float64
	if recoveryCount > 0 {
		v := recoverySum / float64(recoveryCount)
		avgTTR = &v
	}

	return models.BacktestReport{
		SignalCount:           len(results),
		Precision:             float64(hits) / float64(len(results)),
		AvgReboundPct:         reboundSum / float64(len(results)),
		MaxDrawdownPct:        worstMDD,
		AvgSignalDurationBars: durationSum / float64(len(results)),
		SignalToNoiseRatio:    snr,
		AvgTimeToRecoveryBars: avgTTR,
	}
}
