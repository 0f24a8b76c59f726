package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli"
)

func newReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "List and record flashcard reviews",
	}
	cmd.AddCommand(
		newReviewDueCommand(),
		newReviewRecordCommand(),
	)
	return cmd
}

func newReviewDueCommand() *cobra.Command {
	var learnerID int64

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List due cards, most urgent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			items, err := app.engine.DueReviews(cmd.Context(), learnerID)
			if err != nil {
				return err
			}

			cli.WriteReviewQueue(os.Stdout, items, time.Now())
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	_ = cmd.MarkFlagRequired("learner")

	return cmd
}

func newReviewRecordCommand() *cobra.Command {
	var (
		learnerID int64
		cardID    int64
		quality   int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a review result and advance the card's schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if quality < 0 || quality > 5 {
				return fmt.Errorf("--quality must be between 0 and 5")
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			state, err := app.engine.ReviewItem(cmd.Context(), learnerID, cardID, quality)
			if err != nil {
				return err
			}

			fmt.Printf("Card %d: next review on %s (interval %d days, ease %.2f)\n",
				cardID, state.NextDueAt.Format(time.DateOnly), state.IntervalDays, state.EaseFactor)
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&cardID, "card", 0, "Card ID")
	cmd.Flags().IntVar(&quality, "quality", 0, "Recall quality 0-5")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("quality")

	return cmd
}
