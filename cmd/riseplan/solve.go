package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/breakeven"
)

var solveCmd = &cobra.Command{
	Use:   "solve [plan-file]",
	Short: "Find the smallest deposit or starting capital that reaches the goal",
	Long: `Bisects on one value of the plan until the smallest amount, in whole cents, that meets the goal is found.

Targets:
  deposit   one uniform monthly deposit over --years replaces the plan's periods
  capital   the plan's periods are kept (cut to --years when given) and the initial capital varies
  all       solve both and compare the total deposited

Goals:
  goal      after-tax capital reaches the rise threshold within the horizon
  income    the final monthly income after tax covers the desired income

Examples:
  riseplan solve plan.yaml --years 20
  riseplan solve plan.yaml --target capital --goal income
  riseplan solve plan.yaml --years 15 --target all --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		years, _ := flags.GetInt("years")
		targetName, _ := flags.GetString("target")
		goalName, _ := flags.GetString("goal")
		format, _ := flags.GetString("format")

		goal, err := breakeven.ParseGoal(goalName)
		if err != nil {
			return err
		}

		req := breakeven.OptimizationRequest{
			Input:       plan.ToSimulationInput(),
			Goal:        goal,
			Constraints: breakeven.Constraints{Years: years},
		}
		if flags.Changed("min") {
			v, err := decimalFlag(cmd, "min")
			if err != nil {
				return err
			}
			req.Constraints.MinValue = &v
		}
		if flags.Changed("max") {
			v, err := decimalFlag(cmd, "max")
			if err != nil {
				return err
			}
			req.Constraints.MaxValue = &v
		}

		solver := breakeven.NewDefaultSolver(newEngine(false))
		tableFormatter := &breakeven.TableFormatter{}
		jsonFormatter := &breakeven.JSONFormatter{Pretty: true}

		if targetName == "all" {
			result, err := solver.OptimizeMultiDimensional(cmd.Context(), req)
			if err != nil {
				return err
			}
			if format == "json" {
				out, err := jsonFormatter.FormatMultiDimensional(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), tableFormatter.FormatMultiDimensional(result))
			return nil
		}

		if req.Target, err = breakeven.ParseTarget(targetName); err != nil {
			return err
		}
		if req.Target == breakeven.OptimizeMonthlyDeposit && years == 0 {
			req.Constraints.Years = req.Input.TotalMonths() / 12
		}

		result, err := solver.Optimize(cmd.Context(), req)
		if err != nil {
			return err
		}
		logger.WithField("iterations", result.Iterations).Debug("solver finished")

		if format == "json" {
			out, err := jsonFormatter.Format(result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), tableFormatter.Format(result))
		return nil
	},
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return v, nil
}

func init() {
	solveCmd.Flags().Int("years", 0, "Horizon in years (default: the plan's total length)")
	solveCmd.Flags().String("target", "deposit", "Value to solve for (deposit, capital, all)")
	solveCmd.Flags().String("goal", "goal", "Goal to meet (goal, income)")
	solveCmd.Flags().String("min", "", "Lower bound of the search in dollars")
	solveCmd.Flags().String("max", "", "Upper bound of the search in dollars")
	solveCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	rootCmd.AddCommand(solveCmd)
}
