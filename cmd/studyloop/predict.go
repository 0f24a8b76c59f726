package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli"
)

func newPredictCommand() *cobra.Command {
	var (
		learnerID     int64
		courseID      int64
		targetMastery int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict when a learner completes a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			prediction, err := app.engine.PredictCompletion(cmd.Context(), learnerID, courseID, targetMastery)
			if err != nil {
				return err
			}

			cli.WritePredictionReport(os.Stdout, prediction)
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&courseID, "course", 0, "Course ID")
	cmd.Flags().IntVar(&targetMastery, "target-mastery", 0, "Mastery level that counts as done (default 4)")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}
