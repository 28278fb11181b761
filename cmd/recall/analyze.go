package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/assets"
	"github.com/at-ishikawa/recall/internal/cli"
	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/pdf"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
	"github.com/at-ishikawa/recall/internal/statistics"
)

func validatePeriod(year, month int) error {
	if month != 0 && year == 0 {
		return fmt.Errorf("--month requires --year to be specified")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("--month must be between 1 and 12")
	}
	return nil
}

func newAuditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Replay review histories and report schedules that do not match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalService(cmd.Context(), func(service *review.Service, _ schedule.Backend, _ *config.Config) error {
				findings, err := service.Audit(cmd.Context())
				if err != nil {
					return fmt.Errorf("service.Audit() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintFindings(findings)
				if len(findings) > 0 {
					return fmt.Errorf("found %d inconsistent item(s)", len(findings))
				}
				return nil
			})
		},
	}
}

func newStatsCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show monthly/yearly report of review statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePeriod(year, month); err != nil {
				return err
			}
			return withLocalService(cmd.Context(), func(service *review.Service, _ schedule.Backend, _ *config.Config) error {
				logs, err := service.AllHistory(cmd.Context())
				if err != nil {
					return fmt.Errorf("service.AllHistory() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintStatistics(statistics.CalculateStatistics(logs, year, month))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")
	return cmd
}

func newReportCommand() *cobra.Command {
	var year, month int
	var generatePDF bool
	var pdfOptions pdf.Options

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a markdown report of due items and review statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePeriod(year, month); err != nil {
				return err
			}
			return withLocalService(cmd.Context(), func(service *review.Service, backend schedule.Backend, cfg *config.Config) error {
				now := time.Now()
				due, err := service.Due(cmd.Context(), 0)
				if err != nil {
					return fmt.Errorf("service.Due() > %w", err)
				}
				items, err := backend.FindAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("backend.FindAll() > %w", err)
				}
				logs, err := service.AllHistory(cmd.Context())
				if err != nil {
					return fmt.Errorf("service.AllHistory() > %w", err)
				}

				outputPath, err := writeReport(cfg.Report, assets.ReviewReport{
					GeneratedAt: now,
					Due:         due,
					Items:       items,
					Statistics:  statistics.CalculateStatistics(logs, year, month),
				})
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", outputPath); err != nil {
					return err
				}

				if !generatePDF {
					return nil
				}
				pdfPath, err := pdf.ConvertMarkdownToPDF(outputPath, pdfOptions)
				if err != nil {
					return fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to: %s\n", pdfPath)
				return err
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter statistics by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter statistics by month (1-12), requires --year")
	cmd.Flags().BoolVar(&generatePDF, "pdf", false, "Also convert the report to PDF")
	cmd.Flags().BoolVar(&pdfOptions.Landscape, "landscape", false, "Use landscape pages for the PDF")
	cmd.Flags().StringVar(&pdfOptions.PaperSize, "paper-size", "A4", "Paper size of the PDF")
	cmd.Flags().BoolVar(&pdfOptions.Dark, "dark", false, "Use the dark theme for the PDF")
	return cmd
}

func writeReport(cfg config.ReportConfig, report assets.ReviewReport) (string, error) {
	if err := os.MkdirAll(cfg.OutputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", cfg.OutputDirectory, err)
	}
	outputPath := filepath.Join(cfg.OutputDirectory, "review-report-"+report.GeneratedAt.Format("2006-01-02")+".md")

	output, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", outputPath, err)
	}
	defer func() {
		_ = output.Close()
	}()

	if err := assets.WriteReviewReport(output, cfg.TemplatePath, report); err != nil {
		return "", fmt.Errorf("assets.WriteReviewReport() > %w", err)
	}
	return outputPath, nil
}
