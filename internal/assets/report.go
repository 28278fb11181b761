package assets

import (
	"fmt"
	"io"
	"time"

	"github.com/at-ishikawa/recall/internal/scheduler"
	"github.com/at-ishikawa/recall/internal/statistics"
)

// ReviewReport is the data rendered by the review report template
type ReviewReport struct {
	GeneratedAt time.Time
	Due         []scheduler.ScheduledItem
	Items       []scheduler.ScheduledItem
	Statistics  statistics.StatisticsResult
}

func WriteReviewReport(output io.Writer, templatePath string, report ReviewReport) error {
	tmpl, err := ParseReviewReportTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseReviewReportTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, report); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
