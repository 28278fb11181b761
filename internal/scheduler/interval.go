package scheduler

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultAgainInterval = 5 * time.Minute
	DefaultHardInterval  = 15 * time.Minute
	DefaultGoodInterval  = time.Hour
	DefaultEasyInterval  = 24 * time.Hour

	// SuccessBackoffFactor is applied to the multiplier on every non-graduating success.
	SuccessBackoffFactor = 1.5
	// InitialMultiplier is the multiplier of new items and of items after any failure.
	InitialMultiplier = 1.0
)

// IntervalTable maps each difficulty to its base interval.
// It is built once and has no mutation API, so a single table can be shared by every Scheduler.
type IntervalTable struct {
	intervals [Easy + 1]time.Duration
}

var defaultIntervalTable = &IntervalTable{
	intervals: [Easy + 1]time.Duration{
		Again: DefaultAgainInterval,
		Hard:  DefaultHardInterval,
		Good:  DefaultGoodInterval,
		Easy:  DefaultEasyInterval,
	},
}

// DefaultIntervalTable returns the shared table of 5m / 15m / 1h / 24h.
func DefaultIntervalTable() *IntervalTable {
	return defaultIntervalTable
}

// NewIntervalTable builds a table from explicit durations. Every interval must be positive.
func NewIntervalTable(again, hard, good, easy time.Duration) (*IntervalTable, error) {
	table := &IntervalTable{
		intervals: [Easy + 1]time.Duration{
			Again: again,
			Hard:  hard,
			Good:  good,
			Easy:  easy,
		},
	}
	for _, d := range Difficulties {
		if table.intervals[d] <= 0 {
			return nil, fmt.Errorf("base interval for %s must be positive, got %s", d, table.intervals[d])
		}
	}
	return table, nil
}

// Base returns the base interval of a difficulty.
func (t *IntervalTable) Base(d Difficulty) (time.Duration, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return t.intervals[d], nil
}

// scaled multiplies the base interval of d by multiplier.
// Products beyond the range of time.Duration saturate at its maximum.
func (t *IntervalTable) scaled(d Difficulty, multiplier float64) (time.Duration, error) {
	base, err := t.Base(d)
	if err != nil {
		return 0, err
	}
	product := float64(base) * multiplier
	if product >= math.MaxInt64 {
		return time.Duration(math.MaxInt64), nil
	}
	return time.Duration(product), nil
}

// nextReviewAt adds interval to now, staying strictly before Never so that
// a long interval is never read back as graduation.
func nextReviewAt(now time.Time, interval time.Duration) time.Time {
	latest := Never.Add(-time.Second)
	if !now.Before(latest) {
		return now.Add(time.Nanosecond)
	}
	next := now.Add(interval)
	if next.After(latest) {
		return latest
	}
	return next
}
