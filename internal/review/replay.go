package review

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// ErrBrokenHistory is returned when review logs cannot be replayed in order.
var ErrBrokenHistory = errors.New("broken review history")

// Replay rebuilds the schedule of an item from its review logs, oldest first.
// Each log is applied with the clock pinned to its review time.
func Replay(table *scheduler.IntervalTable, logs []schedule.ReviewLog) (scheduler.ScheduledItem, error) {
	if len(logs) == 0 {
		return scheduler.ScheduledItem{}, fmt.Errorf("%w: no review logs", ErrBrokenHistory)
	}

	var current scheduler.ScheduledItem
	for i, log := range logs {
		if log.ItemID != logs[0].ItemID {
			return scheduler.ScheduledItem{}, fmt.Errorf("%w: log %s belongs to %s, not %s", ErrBrokenHistory, log.ID, log.ItemID, logs[0].ItemID)
		}
		if log.ReviewCount != i+1 {
			return scheduler.ScheduledItem{}, fmt.Errorf("%w: log %s has review count %d, want %d", ErrBrokenHistory, log.ID, log.ReviewCount, i+1)
		}

		s := scheduler.New(
			scheduler.WithClock(scheduler.FixedClock(log.ReviewedAt)),
			scheduler.WithIntervalTable(table),
		)
		var err error
		if i == 0 {
			current, err = s.ScheduleReview(log.ItemID, log.Difficulty)
		} else {
			current, err = s.UpdateSchedule(current, log.WasSuccessful, log.Difficulty)
		}
		if err != nil {
			return scheduler.ScheduledItem{}, fmt.Errorf("replay log %s: %w", log.ID, err)
		}
	}
	return current, nil
}

type FindingKind string

const (
	FindingDiverged        FindingKind = "diverged"
	FindingMissingHistory  FindingKind = "missing_history"
	FindingOrphanedHistory FindingKind = "orphaned_history"
	FindingBrokenHistory   FindingKind = "broken_history"
)

// Finding is an item whose stored schedule does not match its review history.
type Finding struct {
	ItemID   string
	Kind     FindingKind
	Stored   *scheduler.ScheduledItem
	Replayed *scheduler.ScheduledItem
	Detail   string
}

// Audit replays the history of every item and reports the items whose stored
// schedule differs from the replayed one. Findings are ordered by item ID.
func (s *Service) Audit(ctx context.Context) ([]Finding, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.FindAll() > %w", err)
	}
	logs, err := s.history.FindAllLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("history.FindAllLogs() > %w", err)
	}

	logsByItem := make(map[string][]schedule.ReviewLog)
	for _, log := range logs {
		logsByItem[log.ItemID] = append(logsByItem[log.ItemID], log)
	}

	findings := make([]Finding, 0)
	for _, item := range items {
		stored := item
		itemLogs, ok := logsByItem[item.ItemID]
		delete(logsByItem, item.ItemID)
		if !ok {
			findings = append(findings, Finding{
				ItemID: item.ItemID,
				Kind:   FindingMissingHistory,
				Stored: &stored,
				Detail: "no review logs",
			})
			continue
		}

		replayed, err := Replay(s.intervals, itemLogs)
		if err != nil {
			findings = append(findings, Finding{
				ItemID: item.ItemID,
				Kind:   FindingBrokenHistory,
				Stored: &stored,
				Detail: err.Error(),
			})
			continue
		}
		if detail := diff(stored, replayed); detail != "" {
			findings = append(findings, Finding{
				ItemID:   item.ItemID,
				Kind:     FindingDiverged,
				Stored:   &stored,
				Replayed: &replayed,
				Detail:   detail,
			})
		}
	}

	orphaned := make([]Finding, 0, len(logsByItem))
	for itemID, itemLogs := range logsByItem {
		finding := Finding{
			ItemID: itemID,
			Kind:   FindingOrphanedHistory,
			Detail: fmt.Sprintf("%d review logs for an unscheduled item", len(itemLogs)),
		}
		if replayed, err := Replay(s.intervals, itemLogs); err == nil {
			finding.Replayed = &replayed
		}
		orphaned = append(orphaned, finding)
	}
	findings = append(findings, orphaned...)
	sortFindings(findings)
	return findings, nil
}

func diff(stored, replayed scheduler.ScheduledItem) string {
	switch {
	case stored.ReviewCount != replayed.ReviewCount:
		return fmt.Sprintf("review count %d, replayed %d", stored.ReviewCount, replayed.ReviewCount)
	case !stored.NextReviewAt.Equal(replayed.NextReviewAt):
		return fmt.Sprintf("next review at %s, replayed %s", stored.NextReviewAt, replayed.NextReviewAt)
	case stored.IntervalMultiplier != replayed.IntervalMultiplier:
		return fmt.Sprintf("interval multiplier %g, replayed %g", stored.IntervalMultiplier, replayed.IntervalMultiplier)
	case stored.LastAttemptSuccessful != replayed.LastAttemptSuccessful:
		return fmt.Sprintf("last attempt successful %t, replayed %t", stored.LastAttemptSuccessful, replayed.LastAttemptSuccessful)
	case stored.Difficulty != replayed.Difficulty:
		return fmt.Sprintf("difficulty %s, replayed %s", stored.Difficulty, replayed.Difficulty)
	}
	return ""
}

func sortFindings(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].ItemID < findings[j].ItemID
	})
}
