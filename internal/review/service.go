// Package review applies review outcomes to stored schedules.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/avast/retry-go"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

const (
	DefaultMaxRetryAttempts = 3
	DefaultRetryDelay       = 50 * time.Millisecond
)

// Request is the outcome of one review of an item.
type Request struct {
	ItemID        string
	WasSuccessful bool
	Difficulty    scheduler.Difficulty
}

// Result is the schedule produced by a review.
type Result struct {
	Item scheduler.ScheduledItem
	Log  schedule.ReviewLog
	// Created is true when the review scheduled the item for the first time.
	Created bool
}

// Reviewer is the set of review operations offered both by a local Service
// and by a remote recall server.
type Reviewer interface {
	Review(ctx context.Context, req Request) (Result, error)
	Due(ctx context.Context, limit int) ([]scheduler.ScheduledItem, error)
	Get(ctx context.Context, itemID string) (scheduler.ScheduledItem, error)
	Reset(ctx context.Context, itemID string) error
	History(ctx context.Context, itemID string) ([]schedule.ReviewLog, error)
}

var _ Reviewer = (*Service)(nil)

type Service struct {
	store     schedule.Store
	history   schedule.HistoryRepository
	clock     scheduler.Clock
	intervals *scheduler.IntervalTable

	maxRetryAttempts uint
	retryDelay       time.Duration
}

type Option func(*Service)

func WithClock(clock scheduler.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithIntervalTable(table *scheduler.IntervalTable) Option {
	return func(s *Service) {
		s.intervals = table
	}
}

// WithRetry sets how many times a review is attempted when another writer
// updated the same item first, and the initial delay between attempts.
func WithRetry(maxAttempts uint, delay time.Duration) Option {
	return func(s *Service) {
		if maxAttempts > 0 {
			s.maxRetryAttempts = maxAttempts
		}
		s.retryDelay = delay
	}
}

func NewService(store schedule.Store, history schedule.HistoryRepository, opts ...Option) *Service {
	s := &Service{
		store:            store,
		history:          history,
		clock:            scheduler.SystemClock{},
		intervals:        scheduler.DefaultIntervalTable(),
		maxRetryAttempts: DefaultMaxRetryAttempts,
		retryDelay:       DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Review records a review of an item and stores its next schedule.
// Unknown items are scheduled for the first time. When another writer saves the
// same item concurrently, the review is recomputed from the newer record.
func (s *Service) Review(ctx context.Context, req Request) (Result, error) {
	if req.ItemID == "" {
		return Result{}, scheduler.ErrEmptyItemID
	}
	if err := req.Difficulty.Validate(); err != nil {
		return Result{}, err
	}

	var result Result
	err := retry.Do(
		func() error {
			prior, err := s.store.Find(ctx, req.ItemID)
			if err != nil {
				return fmt.Errorf("store.Find() > %w", err)
			}

			// The log must carry the exact instant the schedule was computed from, so Replay reproduces it.
			reviewedAt := s.clock.Now()
			sched := scheduler.New(
				scheduler.WithClock(scheduler.FixedClock(reviewedAt)),
				scheduler.WithIntervalTable(s.intervals),
			)

			var next scheduler.ScheduledItem
			if prior == nil {
				next, err = sched.ScheduleReview(req.ItemID, req.Difficulty)
			} else {
				next, err = sched.UpdateSchedule(*prior, req.WasSuccessful, req.Difficulty)
			}
			if err != nil {
				return err
			}

			if err := s.store.Save(ctx, next); err != nil {
				return fmt.Errorf("store.Save() > %w", err)
			}
			result = Result{
				Item:    next,
				Log:     schedule.NewReviewLog(next, req.WasSuccessful, reviewedAt),
				Created: prior == nil,
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxRetryAttempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, schedule.ErrStaleRecord)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying review after a concurrent update",
				slog.String("itemID", req.ItemID),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, schedule.ErrStaleRecord) {
			slog.Default().Warn("Review conflicted with concurrent updates",
				slog.String("itemID", req.ItemID),
				slog.Uint64("attempts", uint64(s.maxRetryAttempts)),
			)
		}
		return Result{}, err
	}

	if err := s.history.AppendLogs(ctx, result.Log); err != nil {
		return result, fmt.Errorf("history.AppendLogs() > %w", err)
	}
	return result, nil
}

// Due returns the items due now, earliest first. A positive limit caps the result.
func (s *Service) Due(ctx context.Context, limit int) ([]scheduler.ScheduledItem, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.FindAll() > %w", err)
	}

	due := scheduler.GetDueCards(s.clock.Now(), items)
	sort.SliceStable(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		return due[i].ItemID < due[j].ItemID
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// Get returns the schedule of an item, or schedule.ErrNotFound.
func (s *Service) Get(ctx context.Context, itemID string) (scheduler.ScheduledItem, error) {
	item, err := s.store.Find(ctx, itemID)
	if err != nil {
		return scheduler.ScheduledItem{}, fmt.Errorf("store.Find() > %w", err)
	}
	if item == nil {
		return scheduler.ScheduledItem{}, fmt.Errorf("%w: %s", schedule.ErrNotFound, itemID)
	}
	return *item, nil
}

// Reset forgets an item and its history, so the next review schedules it from scratch.
func (s *Service) Reset(ctx context.Context, itemID string) error {
	// History first, so a failed Delete leaves the record in place for a retry.
	if err := s.history.DeleteLogs(ctx, itemID); err != nil {
		return fmt.Errorf("history.DeleteLogs() > %w", err)
	}
	if err := s.store.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("store.Delete() > %w", err)
	}
	slog.Default().Debug("Reset item", slog.String("itemID", itemID))
	return nil
}

// History returns the review logs of an item, oldest first.
func (s *Service) History(ctx context.Context, itemID string) ([]schedule.ReviewLog, error) {
	logs, err := s.history.FindLogs(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("history.FindLogs() > %w", err)
	}
	return logs, nil
}

// AllHistory returns every review log, oldest first.
func (s *Service) AllHistory(ctx context.Context) ([]schedule.ReviewLog, error) {
	logs, err := s.history.FindAllLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("history.FindAllLogs() > %w", err)
	}
	return logs, nil
}
