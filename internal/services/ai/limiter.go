package ai

import (
	"sync"
	"time"
)

// dayKey identifies per-(symbol, calendar day) usage.
type dayKey struct {
	Symbol string
	Day    string // UTC calendar date, YYYY-MM-DD
}

// UsageLimiter enforces independent daily caps on augmentation calls: one
// per symbol and one global. Counters live for the process lifetime and
// roll over implicitly when the UTC day changes; stale day keys are left in
// place, which is acceptable for a long-running but not indefinite process.
type UsageLimiter struct {
	mu          sync.Mutex
	perSymbol   int
	globalDaily int
	symbolCount map[dayKey]int
	globalCount map[string]int
}

func NewUsageLimiter(perSymbol, globalDaily int) *UsageLimiter {
	return &UsageLimiter{
		perSymbol:   perSymbol,
		globalDaily: globalDaily,
		symbolCount: make(map[dayKey]int),
		globalCount: make(map[string]int),
	}
}

// Allow reports whether one more call may run for symbol today. Both caps
// must pass; the reason names whichever failed. Denial is a result, not an
// error.
func (l *UsageLimiter) Allow(symbol string, now time.Time) (bool, string) {
	day := now.UTC().Format("2006-01-02")
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.symbolCount[dayKey{Symbol: symbol, Day: day}] >= l.perSymbol {
		return false, "symbol daily limit"
	}
	if l.globalCount[day] >= l.globalDaily {
		return false, "global daily limit"
	}
	return true, "ok"
}

// Consume burns one unit from both counters.
func (l *UsageLimiter) Consume(symbol string, now time.Time) {
	day := now.UTC().Format("2006-01-02")
	l.mu.Lock()
	defer l.mu.Unlock()

	l.symbolCount[dayKey{Symbol: symbol, Day: day}]++
	l.globalCount[day]++
}
