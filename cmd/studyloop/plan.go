package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/studyloop/studyloop/internal/cli"
	"github.com/studyloop/studyloop/internal/planner"
)

type planType string

func (p *planType) Set(val string) error {
	for _, known := range allPlanTypes {
		if val == string(known) {
			*p = known
			return nil
		}
	}
	return fmt.Errorf("invalid plan type: %s", val)
}

func (p planType) String() string {
	return string(p)
}

func (p *planType) Type() string {
	return "planType"
}

const (
	planTypeIntensive planType = "intensive"
	planTypeBalanced  planType = "balanced"
	planTypeRelaxed   planType = "relaxed"
)

var (
	_            pflag.Value = (*planType)(nil)
	allPlanTypes             = []planType{planTypeIntensive, planTypeBalanced, planTypeRelaxed}
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate, export, and override study plans",
	}
	cmd.AddCommand(
		newPlanGenerateCommand(),
		newPlanExportCommand(),
		newPlanOverrideCommand(),
	)
	return cmd
}

func newPlanGenerateCommand() *cobra.Command {
	var (
		learnerID  int64
		courseID   int64
		targetDate string
		dailyHours float64
		weeks      int
		days       []string
	)
	kind := planTypeBalanced

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a study plan from recent performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			var target *time.Time
			if targetDate != "" {
				parsed, err := time.Parse(time.DateOnly, targetDate)
				if err != nil {
					return fmt.Errorf("--target-date must be YYYY-MM-DD: %w", err)
				}
				target = &parsed
			}

			prefs := planner.Preferences{
				DailyHours: dailyHours,
				TotalWeeks: weeks,
			}
			if len(days) > 0 {
				if prefs.DaysAvailable, err = parseWeekdays(days); err != nil {
					return err
				}
			}

			generated, err := app.engine.GeneratePlan(cmd.Context(), learnerID, courseID, kind.String(), target, prefs)
			if err != nil {
				return err
			}

			p := generated.Plan
			fmt.Printf("Generated plan %d: %d sessions over %d weeks (%.1f hours/day, %d-minute sessions)\n",
				p.ID, len(p.Sessions), p.TotalWeeks, p.DailyHours, p.SessionMinutes)
			for _, rec := range generated.Recommendations {
				fmt.Printf("  [%s] %s\n", rec.Priority, rec.Title)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&courseID, "course", 0, "Course ID")
	cmd.Flags().Var(&kind, "type", fmt.Sprintf("Plan type. Possible values are %v", allPlanTypes))
	cmd.Flags().StringVar(&targetDate, "target-date", "", "Completion target date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&dailyHours, "daily-hours", 0, "Preferred daily study hours")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Preferred plan length in weeks")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Available weekdays, e.g. monday,wednesday,friday")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func newPlanExportCommand() *cobra.Command {
	var (
		planID int64
		toPDF  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a study plan to markdown, optionally to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.plans.Find(cmd.Context(), planID)
			if err != nil {
				return err
			}
			course, err := app.catalog.FindCourse(cmd.Context(), p.CourseID)
			if err != nil {
				return err
			}

			var template string
			if app.cfg.Outputs.PlanTemplate != "" {
				content, err := os.ReadFile(app.cfg.Outputs.PlanTemplate)
				if err != nil {
					return fmt.Errorf("os.ReadFile(%s) > %w", app.cfg.Outputs.PlanTemplate, err)
				}
				template = string(content)
			}

			paths, err := cli.ExportPlan(app.cfg.Outputs.PlanDirectory, p, course.Title, template, toPDF)
			if err != nil {
				return err
			}
			for _, path := range paths {
				fmt.Printf("Wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "Plan ID")
	cmd.Flags().BoolVar(&toPDF, "pdf", false, "Also convert the export to PDF")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newPlanOverrideCommand() *cobra.Command {
	var (
		planID       int64
		overrideType string
		data         string
		reason       string
	)

	cmd := &cobra.Command{
		Use:   "override",
		Short: "Record a manual plan override",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			applied, err := app.engine.ApplyOverride(cmd.Context(), planID, overrideType, data, reason)
			if err != nil {
				return err
			}
			if !applied {
				return fmt.Errorf("unknown override type: %s", overrideType)
			}
			fmt.Printf("Override %s recorded on plan %d\n", overrideType, planID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&planID, "plan", 0, "Plan ID")
	cmd.Flags().StringVar(&overrideType, "type", "", "Override type (schedule, difficulty, review_frequency)")
	cmd.Flags().StringVar(&data, "data", "{}", "Override payload as JSON")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the override is needed")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
