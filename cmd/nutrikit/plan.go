package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nutrihealth/nutrikit/pkg/session"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show your current diet plan (patients only)",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return requireRole(a, session.RolePatient)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.nutrition.FetchCurrentPlan(cmd.Context()); err != nil {
				return fmt.Errorf("%s", a.nutrition.Err())
			}

			plan := a.nutrition.CurrentPlan()
			fmt.Printf("%s (%d kcal/day, from %s)\n", plan.Name, plan.KcalTarget, plan.StartDate)

			for _, meal := range plan.Meals {
				fmt.Printf("\n%s", meal.Name)
				if meal.TimeOfDay != "" {
					fmt.Printf(" (%s)", meal.TimeOfDay)
				}
				fmt.Println()

				for _, item := range meal.Items {
					portion := item.PortionDisplay
					if portion == "" {
						portion = fmt.Sprintf("%.0f g", item.QuantityGrams)
					}
					fmt.Printf("  - %s (%s)\n", item.Food.Name, portion)
				}
				if meal.TotalCalories > 0 {
					fmt.Printf("  %.0f kcal\n", meal.TotalCalories)
				}
			}
			return nil
		},
	}
}
