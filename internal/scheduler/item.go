package scheduler

import "time"

// Never is the due time of graduated items.
// It is the latest instant a MySQL DATETIME can hold, so every store can round-trip it.
var Never = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// ScheduledItem is the schedule state of one reviewable item.
// It is a value: transitions return a new ScheduledItem and never modify the prior one.
type ScheduledItem struct {
	ItemID                string     `json:"item_id" yaml:"item_id"`
	NextReviewAt          time.Time  `json:"next_review_at" yaml:"next_review_at"`
	ReviewCount           int        `json:"review_count" yaml:"review_count"`
	LastAttemptSuccessful bool       `json:"last_attempt_successful" yaml:"last_attempt_successful"`
	IntervalMultiplier    float64    `json:"interval_multiplier" yaml:"interval_multiplier"`
	Difficulty            Difficulty `json:"difficulty" yaml:"difficulty"`
}

// IsGraduated reports whether the item reached the terminal state.
func (item ScheduledItem) IsGraduated() bool {
	return !item.NextReviewAt.Before(Never)
}

// IsDue reports whether the item should be reviewed at now.
// Graduated items are never due.
func (item ScheduledItem) IsDue(now time.Time) bool {
	if item.IsGraduated() {
		return false
	}
	return !item.NextReviewAt.After(now)
}
