package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studyloop/studyloop/internal/bootstrap"
)

func newReplanCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "replan [plan-id...]",
		Short: "Re-evaluate plans against fresh performance and adapt them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("pass plan IDs or --all")
			}

			planIDs := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid plan ID %q: %w", arg, err)
				}
				planIDs = append(planIDs, id)
			}

			app, err := newApp()
			if err != nil {
				return err
			}

			boot := bootstrap.New()
			boot.AddShutdownHook(func(ctx context.Context) error {
				return app.Close()
			})

			return boot.Run(cmd.Context(), func(ctx context.Context) error {
				if all {
					if planIDs, err = app.plans.ActivePlanIDs(ctx); err != nil {
						return err
					}
				}

				for _, planID := range planIDs {
					if ctx.Err() != nil {
						return ctx.Err()
					}

					adapted, err := app.engine.AdaptPlan(ctx, planID)
					if err != nil {
						return fmt.Errorf("adapt plan %d: %w", planID, err)
					}
					if len(adapted.Applied) == 0 {
						fmt.Printf("Plan %d: no adaptation needed\n", planID)
						continue
					}
					for _, a := range adapted.Applied {
						fmt.Printf("Plan %d: %s (%s)\n", planID, a.Description, a.Trigger)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Re-evaluate every active plan")

	return cmd
}
