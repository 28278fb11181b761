package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/cli"
	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/review"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

func newReviewCommand() *cobra.Command {
	difficulty := cli.DifficultyFlag(scheduler.Good)
	var wasSuccessful bool

	cmd := &cobra.Command{
		Use:   "review <item id>",
		Short: "Record a review and schedule the next one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviewer(cmd.Context(), func(reviewer review.Reviewer, _ *config.Config) error {
				result, err := reviewer.Review(cmd.Context(), review.Request{
					ItemID:        args[0],
					WasSuccessful: wasSuccessful,
					Difficulty:    difficulty.Difficulty(),
				})
				if err != nil {
					return fmt.Errorf("reviewer.Review() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintReviewResult(result)
				return nil
			})
		},
	}

	cmd.Flags().Var(&difficulty, "difficulty", "How hard the item was to recall. Options: again, hard, good, easy")
	cmd.Flags().BoolVar(&wasSuccessful, "success", false, "The item was recalled correctly")
	return cmd
}

func newDueCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List the items due for review, earliest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return withReviewer(cmd.Context(), func(reviewer review.Reviewer, cfg *config.Config) error {
				if limit == 0 {
					limit = cfg.Review.DueLimit
				}
				items, err := reviewer.Due(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("reviewer.Due() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintDue(items, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of items to list. 0 uses review.due_limit")
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item id>",
		Short: "Show the schedule of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviewer(cmd.Context(), func(reviewer review.Reviewer, _ *config.Config) error {
				item, err := reviewer.Get(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("reviewer.Get() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintItem(item)
				return nil
			})
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <item id>",
		Short: "Forget the schedule and history of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviewer(cmd.Context(), func(reviewer review.Reviewer, _ *config.Config) error {
				if err := reviewer.Reset(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("reviewer.Reset() > %w", err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Reset %s\n", args[0])
				return err
			})
		},
	}
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <item id>",
		Short: "Show the review history of an item, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReviewer(cmd.Context(), func(reviewer review.Reviewer, _ *config.Config) error {
				logs, err := reviewer.History(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("reviewer.History() > %w", err)
				}
				cli.NewPrinter(cmd.OutOrStdout()).PrintHistory(logs)
				return nil
			})
		},
	}
}
