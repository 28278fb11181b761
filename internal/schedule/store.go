// Package schedule persists scheduled items and their review logs.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/at-ishikawa/recall/internal/scheduler"
)

//go:generate mockgen -source=store.go -destination=../mocks/schedule/mock_store.go -package=mock_schedule

var (
	// ErrStaleRecord is returned when a record does not directly succeed the stored one.
	ErrStaleRecord   = errors.New("stale schedule record")
	ErrNotFound      = errors.New("scheduled item not found")
	ErrInvalidRecord = errors.New("invalid schedule record")
)

// Store owns the persisted collection of scheduled items.
//
// Save is an optimistic write keyed on ReviewCount: a record with ReviewCount 1 is
// inserted only when the item is absent, and a record with ReviewCount N replaces
// only a stored record with ReviewCount N-1. Any other write fails with ErrStaleRecord.
type Store interface {
	// Find returns nil without an error when the item is not scheduled.
	Find(ctx context.Context, itemID string) (*scheduler.ScheduledItem, error)
	FindAll(ctx context.Context) ([]scheduler.ScheduledItem, error)
	Save(ctx context.Context, item scheduler.ScheduledItem) error
	Delete(ctx context.Context, itemID string) error
}

// HistoryRepository keeps the append-only log of review transitions.
type HistoryRepository interface {
	AppendLogs(ctx context.Context, logs ...ReviewLog) error
	// FindLogs returns the logs of an item, oldest first.
	FindLogs(ctx context.Context, itemID string) ([]ReviewLog, error)
	FindAllLogs(ctx context.Context) ([]ReviewLog, error)
	DeleteLogs(ctx context.Context, itemID string) error
}

// ReviewLog records one review and the state it produced.
type ReviewLog struct {
	ID                 string               `json:"id" yaml:"id"`
	ItemID             string               `json:"item_id" yaml:"item_id"`
	Difficulty         scheduler.Difficulty `json:"difficulty" yaml:"difficulty"`
	WasSuccessful      bool                 `json:"was_successful" yaml:"was_successful"`
	ReviewCount        int                  `json:"review_count" yaml:"review_count"`
	IntervalMultiplier float64              `json:"interval_multiplier" yaml:"interval_multiplier"`
	NextReviewAt       time.Time            `json:"next_review_at" yaml:"next_review_at"`
	ReviewedAt         time.Time            `json:"reviewed_at" yaml:"reviewed_at"`
}

// NewReviewLog describes the transition that produced item.
// IDs are ULIDs, so they sort in review order.
func NewReviewLog(item scheduler.ScheduledItem, wasSuccessful bool, reviewedAt time.Time) ReviewLog {
	return ReviewLog{
		ID:                 ulid.MustNew(ulid.Timestamp(reviewedAt), ulid.DefaultEntropy()).String(),
		ItemID:             item.ItemID,
		Difficulty:         item.Difficulty,
		WasSuccessful:      wasSuccessful,
		ReviewCount:        item.ReviewCount,
		IntervalMultiplier: item.IntervalMultiplier,
		NextReviewAt:       item.NextReviewAt,
		ReviewedAt:         reviewedAt,
	}
}

// Item returns the scheduled item the log transitioned to.
func (l ReviewLog) Item() scheduler.ScheduledItem {
	lastAttemptSuccessful := l.WasSuccessful
	if l.ReviewCount == 1 {
		lastAttemptSuccessful = false
	}
	return scheduler.ScheduledItem{
		ItemID:                l.ItemID,
		NextReviewAt:          l.NextReviewAt,
		ReviewCount:           l.ReviewCount,
		LastAttemptSuccessful: lastAttemptSuccessful,
		IntervalMultiplier:    l.IntervalMultiplier,
		Difficulty:            l.Difficulty,
	}
}

func validateRecord(item scheduler.ScheduledItem) error {
	if item.ItemID == "" {
		return fmt.Errorf("%w: empty item id", ErrInvalidRecord)
	}
	if item.ReviewCount < 1 {
		return fmt.Errorf("%w: review count of %s is %d", ErrInvalidRecord, item.ItemID, item.ReviewCount)
	}
	if err := item.Difficulty.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return nil
}

// checkSuccession verifies that next may replace stored.
func checkSuccession(stored *scheduler.ScheduledItem, next scheduler.ScheduledItem) error {
	if next.ReviewCount == 1 {
		if stored != nil {
			return fmt.Errorf("%w: %s is already scheduled with review count %d", ErrStaleRecord, next.ItemID, stored.ReviewCount)
		}
		return nil
	}
	if stored == nil {
		return fmt.Errorf("%w: %s is not scheduled", ErrStaleRecord, next.ItemID)
	}
	if stored.ReviewCount != next.ReviewCount-1 {
		return fmt.Errorf("%w: %s has review count %d, want %d", ErrStaleRecord, next.ItemID, stored.ReviewCount, next.ReviewCount-1)
	}
	return nil
}

func sortItems(items []scheduler.ScheduledItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].ItemID < items[j].ItemID
	})
}

func sortLogs(logs []ReviewLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].ReviewedAt.Equal(logs[j].ReviewedAt) {
			return logs[i].ReviewedAt.Before(logs[j].ReviewedAt)
		}
		return logs[i].ID < logs[j].ID
	})
}
