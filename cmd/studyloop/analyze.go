package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/cli"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		learnerID  int64
		courseID   int64
		windowDays int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a learner's recent performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.engine.AnalyzePerformance(cmd.Context(), learnerID, courseID, windowDays)
			if err != nil {
				return err
			}
			snapshot, err := app.engine.Snapshot(cmd.Context(), learnerID, courseID, windowDays)
			if err != nil {
				return err
			}

			cli.WriteAnalysisReport(os.Stdout, result, snapshot)
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&courseID, "course", 0, "Course ID, 0 for all courses")
	cmd.Flags().IntVar(&windowDays, "window", 0, "Analysis window in days (default from config)")
	_ = cmd.MarkFlagRequired("learner")

	return cmd
}
