package usecase

import (
	"sort"
	"strings"
	"sync"
	"time"

	"BottomScan/internal/domain/models"
)

// AlertEngine is the per-(symbol, direction) decision state machine applying
// cooldown, duplicate suppression, and the score-strengthening override.
// State lives for the process lifetime; records are overwritten, never
// deleted.
type AlertEngine struct {
	cooldown        time.Duration
	strengthenDelta int

	mu   sync.Mutex
	last map[models.AlertKey]models.AlertRecord
}

func NewAlertEngine(cooldownMinutes, strengthenDelta int) *AlertEngine {
	return &AlertEngine{
		cooldown:        time.Duration(cooldownMinutes) * time.Minute,
		strengthenDelta: strengthenDelta,
		last:            make(map[models.AlertKey]models.AlertRecord),
	}
}

// Decide runs one evaluation for a symbol. Suppressed outcomes are normal
// operation and always carry a reason.
func (e *AlertEngine) Decide(symbol string, summary models.SignalSummary, results []models.IndicatorResult, now time.Time) models.AlertDecision {
	ts := now.UTC()
	direction := summary.StrongestSignal

	if !summary.ShouldAlert || direction == models.Neutral {
		return models.AlertDecision{
			Action:     models.ActionSuppressNoSignal,
			ShouldSend: false,
			Reason:     "threshold/direction unmet",
			Symbol:     symbol,
			Direction:  direction,
			Score:      summary.TotalScore,
		}
	}

	key := models.AlertKey{Symbol: symbol, Direction: direction}
	signature := Signature(results, direction)

	e.mu.Lock()
	defer e.mu.Unlock()

	if prev, ok := e.last[key]; ok {
		elapsed := ts.Sub(prev.Timestamp)
		if elapsed < e.cooldown {
			if summary.TotalScore >= prev.Score+e.strengthenDelta {
				e.last[key] = models.AlertRecord{Symbol: symbol, Direction: direction, Score: summary.TotalScore, Timestamp: ts, Signature: signature}
				return models.AlertDecision{
					Action:     models.ActionSendStrengthened,
					ShouldSend: true,
					Reason:     "strengthened in cooldown",
					Symbol:     symbol,
					Direction:  direction,
					Score:      summary.TotalScore,
				}
			}
			remaining := int((e.cooldown - elapsed).Minutes())
			if remaining < 0 {
				remaining = 0
			}
			return models.AlertDecision{
				Action:            models.ActionSuppressCooldown,
				ShouldSend:        false,
				Reason:            "cooldown",
				Symbol:            symbol,
				Direction:         direction,
				Score:             summary.TotalScore,
				CooldownRemaining: remaining,
			}
		}

		if prev.Signature == signature && prev.Score == summary.TotalScore {
			return models.AlertDecision{
				Action:     models.ActionSuppressDupe,
				ShouldSend: false,
				Reason:     "duplicate",
				Symbol:     symbol,
				Direction:  direction,
				Score:      summary.TotalScore,
			}
		}
	}

	e.last[key] = models.AlertRecord{Symbol: symbol, Direction: direction, Score: summary.TotalScore, Timestamp: ts, Signature: signature}
	return models.AlertDecision{
		Action:     models.ActionSend,
		ShouldSend: true,
		Reason:     "accepted",
		Symbol:     symbol,
		Direction:  direction,
		Score:      summary.TotalScore,
	}
}

// Signature builds the sorted contribution signature: the names of every
// indicator that fired positively in the winning direction.
func Signature(results []models.IndicatorResult, direction models.SignalDirection) string {
	var names []string
	for _, r := range results {
		if r.Signal == direction && r.Score > 0 {
			names = append(names, r.Indicator)
		}
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// Contributors returns the same set as Signature but as a slice, for
// journaling and backtest signals.
func Contributors(results []models.IndicatorResult, direction models.SignalDirection) []string {
	var names []string
	for _, r := range results {
		if r.Signal == direction && r.Score > 0 {
			names = append(names, r.Indicator)
		}
	}
	sort.Strings(names)
	return names
}
