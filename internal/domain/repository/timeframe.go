package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Timeframe represents a bar resolution such as "15m", "1h" or "1d".
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF1d  Timeframe = "1d"
)

// ErrInvalidTimeframe marks an unsupported timeframe suffix. This is an
// integration error, not a recoverable condition.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// Minutes derives the expected bar interval from the timeframe suffix.
func (tf Timeframe) Minutes() (int, error) {
	s := string(tf)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}

	mult := 0
	switch {
	case strings.HasSuffix(s, "m"):
		mult = 1
	case strings.HasSuffix(s, "h"):
		mult = 60
	case strings.HasSuffix(s, "d"):
		mult = 60 * 24
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
	return n * mult, nil
}

// DefaultTimeframe returns the default scan resolution.
func DefaultTimeframe() Timeframe { return TF15m }

// NormalizeTimeframe converts a raw string to a timeframe, falling back to
// the default when empty or unparsable.
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if _, err := tf.Minutes(); err != nil {
		return DefaultTimeframe()
	}
	return tf
}
