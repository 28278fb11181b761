// Package statistics summarizes review logs per month.
package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/recall/internal/schedule"
)

// ReviewStatistics holds statistics for a time period
type ReviewStatistics struct {
	Period         string // "2025-01"
	ReviewsCount   int    // Total reviews
	ReviewsUnique  int    // Unique items reviewed
	NewItemsCount  int    // Items scheduled for the first time
	SuccessCount   int    // Reviews answered successfully
	FailureCount   int    // Reviews answered unsuccessfully
	GraduatedCount int    // Items that graduated in the period
}

// AggregateStatistics holds totals across all periods with global unique counts
type AggregateStatistics struct {
	ReviewsCount   int
	ReviewsUnique  int // Deduplicated across periods
	NewItemsCount  int
	SuccessCount   int
	FailureCount   int
	GraduatedCount int
}

// StatisticsResult holds both per-period and aggregate statistics
type StatisticsResult struct {
	Periods   []ReviewStatistics
	Aggregate AggregateStatistics
}

type periodData struct {
	reviewsTotal   int
	reviewsUnique  map[string]struct{}
	newItems       int
	successes      int
	failures       int
	graduatedTotal int
}

// CalculateStatistics calculates review statistics from review logs.
// It accepts optional year and month filters (0 means no filter).
// An item graduates with its first log whose next review is never.
func CalculateStatistics(logs []schedule.ReviewLog, year, month int) StatisticsResult {
	sorted := make([]schedule.ReviewLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReviewedAt.Before(sorted[j].ReviewedAt)
	})

	stats := make(map[string]*periodData)
	globalReviewsUnique := make(map[string]struct{})
	graduated := make(map[string]struct{})

	for _, log := range sorted {
		// Graduation is tracked even outside the filter so later logs are not counted again
		_, alreadyGraduated := graduated[log.ItemID]
		graduates := !alreadyGraduated && log.Item().IsGraduated()
		if graduates {
			graduated[log.ItemID] = struct{}{}
		}

		if log.ReviewedAt.IsZero() {
			continue
		}
		reviewedAt := log.ReviewedAt.UTC()
		logYear := reviewedAt.Year()
		logMonth := int(reviewedAt.Month())
		if !matchesFilter(logYear, logMonth, year, month) {
			continue
		}

		period := fmt.Sprintf("%d-%02d", logYear, logMonth)
		ensurePeriodExists(stats, period)
		data := stats[period]

		data.reviewsTotal++
		data.reviewsUnique[log.ItemID] = struct{}{}
		globalReviewsUnique[log.ItemID] = struct{}{}
		if log.ReviewCount == 1 {
			data.newItems++
		}
		if log.WasSuccessful {
			data.successes++
		} else {
			data.failures++
		}
		if graduates {
			data.graduatedTotal++
		}
	}

	return buildResult(stats, globalReviewsUnique)
}

func ensurePeriodExists(stats map[string]*periodData, period string) {
	if stats[period] == nil {
		stats[period] = &periodData{
			reviewsUnique: make(map[string]struct{}),
		}
	}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}

func buildResult(stats map[string]*periodData, globalReviewsUnique map[string]struct{}) StatisticsResult {
	periods := make([]ReviewStatistics, 0, len(stats))

	var aggregate AggregateStatistics
	for period, data := range stats {
		periods = append(periods, ReviewStatistics{
			Period:         period,
			ReviewsCount:   data.reviewsTotal,
			ReviewsUnique:  len(data.reviewsUnique),
			NewItemsCount:  data.newItems,
			SuccessCount:   data.successes,
			FailureCount:   data.failures,
			GraduatedCount: data.graduatedTotal,
		})
		aggregate.ReviewsCount += data.reviewsTotal
		aggregate.NewItemsCount += data.newItems
		aggregate.SuccessCount += data.successes
		aggregate.FailureCount += data.failures
		aggregate.GraduatedCount += data.graduatedTotal
	}
	aggregate.ReviewsUnique = len(globalReviewsUnique)

	// Sort by period descending (newest first)
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})

	return StatisticsResult{
		Periods:   periods,
		Aggregate: aggregate,
	}
}
