package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/datasync"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/schedule"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <yaml file>",
		Short: "Copy every schedule and review log of the configured store into a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalService(cmd.Context(), func(_ *review.Service, backend schedule.Backend, _ *config.Config) error {
				data, err := datasync.NewExporter(backend, backend).Export(cmd.Context())
				if err != nil {
					return fmt.Errorf("exporter.Export() > %w", err)
				}

				target := schedule.NewYAMLStore(args[0])
				result, err := datasync.NewImporter(target, target, cmd.OutOrStdout()).
					Import(cmd.Context(), data, datasync.ImportOptions{UpdateExisting: true})
				if err != nil {
					return fmt.Errorf("importer.Import() > %w", err)
				}
				printImportSummary(cmd, result, false)
				return nil
			})
		},
	}
}

func newImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import <yaml file>",
		Short: "Copy schedules and review logs from a YAML file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLocalService(cmd.Context(), func(_ *review.Service, backend schedule.Backend, _ *config.Config) error {
				source := schedule.NewYAMLStore(args[0])
				data, err := datasync.NewExporter(source, source).Export(cmd.Context())
				if err != nil {
					return fmt.Errorf("exporter.Export() > %w", err)
				}

				result, err := datasync.NewImporter(backend, backend, cmd.OutOrStdout()).
					Import(cmd.Context(), data, datasync.ImportOptions{
						DryRun:         dryRun,
						UpdateExisting: updateExisting,
					})
				if err != nil {
					return fmt.Errorf("importer.Import() > %w", err)
				}
				printImportSummary(cmd, result, dryRun)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Advance schedules that are behind the file")
	return cmd
}

func printImportSummary(cmd *cobra.Command, result *datasync.ImportResult, dryRun bool) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "\nSummary:")
	if dryRun {
		_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
	}
	_, _ = fmt.Fprintf(out, "  Items:  %d new, %d skipped, %d updated\n", result.ItemsNew, result.ItemsSkipped, result.ItemsUpdated)
	_, _ = fmt.Fprintf(out, "  Logs:   %d new, %d skipped\n", result.LogsNew, result.LogsSkipped)
}
