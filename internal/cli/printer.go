// Package cli renders review state for the terminal.
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/statistics"
)

const timeLayout = "2006-01-02 15:04 MST"

// Printer writes review state to a terminal.
type Printer struct {
	w       io.Writer
	bold    *color.Color
	success *color.Color
	failure *color.Color
	faint   *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{
		w:       w,
		bold:    color.New(color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		faint:   color.New(color.Faint),
	}
}

func formatNextReview(item scheduler.ScheduledItem) string {
	if item.IsGraduated() {
		return "graduated"
	}
	return item.NextReviewAt.Format(timeLayout)
}

func (p *Printer) outcome(wasSuccessful bool) string {
	if wasSuccessful {
		return p.success.Sprint("success")
	}
	return p.failure.Sprint("failure")
}

// PrintReviewResult shows the schedule produced by a review.
func (p *Printer) PrintReviewResult(result review.Result) {
	verb := "Rescheduled"
	if result.Created {
		verb = "Scheduled"
	}
	_, _ = p.bold.Fprintf(p.w, "%s %s\n", verb, result.Item.ItemID)
	if result.Item.IsGraduated() {
		_, _ = p.success.Fprintln(p.w, "  graduated: it will not be due again")
		return
	}
	_, _ = fmt.Fprintf(p.w, "  next review: %s (review #%d, %s, x%.2f)\n",
		formatNextReview(result.Item),
		result.Item.ReviewCount,
		result.Item.Difficulty,
		result.Item.IntervalMultiplier,
	)
}

// PrintItem shows every field of one schedule.
func (p *Printer) PrintItem(item scheduler.ScheduledItem) {
	_, _ = p.bold.Fprintln(p.w, item.ItemID)
	_, _ = fmt.Fprintf(p.w, "  %-24s %s\n", "next review:", formatNextReview(item))
	_, _ = fmt.Fprintf(p.w, "  %-24s %d\n", "review count:", item.ReviewCount)
	_, _ = fmt.Fprintf(p.w, "  %-24s %s\n", "last attempt:", p.outcome(item.LastAttemptSuccessful))
	_, _ = fmt.Fprintf(p.w, "  %-24s %s\n", "difficulty:", item.Difficulty)
	_, _ = fmt.Fprintf(p.w, "  %-24s %.2f\n", "interval multiplier:", item.IntervalMultiplier)
}

// PrintDue lists due items in the given order.
func (p *Printer) PrintDue(items []scheduler.ScheduledItem, now time.Time) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(p.w, "Nothing is due.")
		return
	}

	_, _ = p.bold.Fprintf(p.w, "%-24s  %-10s  %-6s  %s\n", "Item", "Difficulty", "Count", "Overdue")
	for _, item := range items {
		_, _ = fmt.Fprintf(p.w, "%-24s  %-10s  %-6d  %s\n",
			item.ItemID,
			item.Difficulty,
			item.ReviewCount,
			now.Sub(item.NextReviewAt).Truncate(time.Second),
		)
	}
}

// PrintHistory lists review logs, oldest first.
func (p *Printer) PrintHistory(logs []schedule.ReviewLog) {
	if len(logs) == 0 {
		_, _ = fmt.Fprintln(p.w, "No reviews recorded.")
		return
	}

	for _, log := range logs {
		next := "graduated"
		if log.NextReviewAt.Before(scheduler.Never) {
			next = log.NextReviewAt.Format(timeLayout)
		}
		_, _ = fmt.Fprintf(p.w, "#%-3d %s  %-7s  %-5s  x%.2f  next %s  %s\n",
			log.ReviewCount,
			log.ReviewedAt.Format(timeLayout),
			p.outcome(log.WasSuccessful),
			log.Difficulty,
			log.IntervalMultiplier,
			next,
			p.faint.Sprint(log.ID),
		)
	}
}

// PrintFindings reports the result of an audit.
func (p *Printer) PrintFindings(findings []review.Finding) {
	if len(findings) == 0 {
		_, _ = p.success.Fprintln(p.w, "Every schedule matches its review history.")
		return
	}

	_, _ = p.failure.Fprintf(p.w, "%d inconsistent item(s)\n", len(findings))
	for _, finding := range findings {
		_, _ = fmt.Fprintf(p.w, "%-24s  %-16s  %s\n", finding.ItemID, finding.Kind, finding.Detail)
	}
}

// PrintStatistics shows per-month review counts, newest first.
func (p *Printer) PrintStatistics(result statistics.StatisticsResult) {
	if len(result.Periods) == 0 {
		_, _ = fmt.Fprintln(p.w, "No reviews found for the specified period.")
		return
	}

	_, _ = p.bold.Fprintln(p.w, "Review Statistics Report")
	_, _ = fmt.Fprintln(p.w, "========================")
	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintf(p.w, "%-10s  %-22s  %-5s  %-9s  %-9s  %-9s\n", "Period", "Reviews (Total/Unique)", "New", "Successes", "Failures", "Graduated")
	for _, s := range result.Periods {
		_, _ = fmt.Fprintf(p.w, "%-10s  %-22s  %-5d  %-9d  %-9d  %-9d\n",
			s.Period,
			fmt.Sprintf("%d / %d", s.ReviewsCount, s.ReviewsUnique),
			s.NewItemsCount,
			s.SuccessCount,
			s.FailureCount,
			s.GraduatedCount,
		)
	}

	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintf(p.w, "%-10s  %-22s  %-5d  %-9d  %-9d  %-9d\n",
		"Totals:",
		fmt.Sprintf("%d / %d", result.Aggregate.ReviewsCount, result.Aggregate.ReviewsUnique),
		result.Aggregate.NewItemsCount,
		result.Aggregate.SuccessCount,
		result.Aggregate.FailureCount,
		result.Aggregate.GraduatedCount,
	)
}
