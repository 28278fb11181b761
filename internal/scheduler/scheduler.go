// Package scheduler decides when a reviewed item should be presented again.
//
// The policy is a simplified four-bucket scheme: each rating has a base interval,
// consecutive successes grow a multiplier geometrically, any failure resets it,
// and a successful "easy" review graduates the item permanently.
package scheduler

import (
	"fmt"
	"time"
)

// Scheduler computes new schedule states. It holds no mutable state and is safe for concurrent use.
type Scheduler struct {
	clock     Clock
	intervals *IntervalTable
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithIntervalTable replaces the default base intervals.
func WithIntervalTable(table *IntervalTable) Option {
	return func(s *Scheduler) {
		s.intervals = table
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:     SystemClock{},
		intervals: DefaultIntervalTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intervals returns the base interval table used by s.
func (s *Scheduler) Intervals() *IntervalTable {
	return s.intervals
}

// ScheduleReview creates the first schedule record of an item.
// The first scheduling is never marked as a successful attempt, whatever the rating.
func (s *Scheduler) ScheduleReview(itemID string, difficulty Difficulty) (ScheduledItem, error) {
	if itemID == "" {
		return ScheduledItem{}, ErrEmptyItemID
	}
	interval, err := s.intervals.scaled(difficulty, InitialMultiplier)
	if err != nil {
		return ScheduledItem{}, fmt.Errorf("schedule %s: %w", itemID, err)
	}

	return ScheduledItem{
		ItemID:                itemID,
		NextReviewAt:          nextReviewAt(s.clock.Now(), interval),
		ReviewCount:           1,
		LastAttemptSuccessful: false,
		IntervalMultiplier:    InitialMultiplier,
		Difficulty:            difficulty,
	}, nil
}

// UpdateSchedule computes the record that replaces prior after another review.
func (s *Scheduler) UpdateSchedule(prior ScheduledItem, wasSuccessful bool, difficulty Difficulty) (ScheduledItem, error) {
	if prior.ItemID == "" {
		return ScheduledItem{}, ErrEmptyItemID
	}
	if err := difficulty.Validate(); err != nil {
		return ScheduledItem{}, fmt.Errorf("update %s: %w", prior.ItemID, err)
	}

	next := ScheduledItem{
		ItemID:                prior.ItemID,
		ReviewCount:           prior.ReviewCount + 1,
		LastAttemptSuccessful: wasSuccessful,
		Difficulty:            difficulty,
	}

	// Graduation is terminal: a graduated record stays graduated whatever the outcome.
	if prior.IsGraduated() || (wasSuccessful && difficulty == Easy) {
		next.NextReviewAt = Never
		next.IntervalMultiplier = prior.IntervalMultiplier
		return next, nil
	}

	multiplier := InitialMultiplier
	if wasSuccessful {
		multiplier = prior.IntervalMultiplier * SuccessBackoffFactor
	}
	interval, err := s.intervals.scaled(difficulty, multiplier)
	if err != nil {
		return ScheduledItem{}, fmt.Errorf("update %s: %w", prior.ItemID, err)
	}

	next.IntervalMultiplier = multiplier
	next.NextReviewAt = nextReviewAt(s.clock.Now(), interval)
	return next, nil
}

// GetDueCards returns the records due at now, in their input order.
// records is not modified.
func GetDueCards(now time.Time, records []ScheduledItem) []ScheduledItem {
	due := make([]ScheduledItem, 0, len(records))
	for _, record := range records {
		if record.IsDue(now) {
			due = append(due, record)
		}
	}
	return due
}
