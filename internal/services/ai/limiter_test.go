package ai

import (
	"testing"
	"time"
)

func TestLimiterSymbolCap(t *testing.T) {
	l := NewUsageLimiter(2, 10)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		ok, reason := l.Allow("AAPL", now)
		if !ok {
			t.Fatalf("call %d should be allowed, got %q", i, reason)
		}
		l.Consume("AAPL", now)
	}

	ok, reason := l.Allow("AAPL", now)
	if ok || reason != "symbol daily limit" {
		t.Fatalf("expected symbol cap, got ok=%v reason=%q", ok, reason)
	}

	// Other symbols are unaffected by one symbol's cap.
	ok, _ = l.Allow("MSFT", now)
	if !ok {
		t.Fatalf("other symbol must still be allowed")
	}
}

func TestLimiterGlobalCap(t *testing.T) {
	l := NewUsageLimiter(10, 2)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	l.Consume("AAPL", now)
	l.Consume("MSFT", now)

	ok, reason := l.Allow("NVDA", now)
	if ok || reason != "global daily limit" {
		t.Fatalf("expected global cap, got ok=%v reason=%q", ok, reason)
	}
}

func TestLimiterDayRollover(t *testing.T) {
	l := NewUsageLimiter(1, 1)
	day1 := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Hour)

	l.Consume("AAPL", day1)
	if ok, _ := l.Allow("AAPL", day1); ok {
		t.Fatalf("cap must hold within the day")
	}
	if ok, reason := l.Allow("AAPL", day2); !ok {
		t.Fatalf("counters must roll over at UTC midnight, got %q", reason)
	}
}
