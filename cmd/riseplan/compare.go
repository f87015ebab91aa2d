package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare the plan under both tax options",
	Long: `Projects the plan once with tax on the entire capital and once with tax on the interest only,
and reports the differences against the plan's own tax option.

Examples:
  riseplan compare plan.yaml
  riseplan compare plan.yaml --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		debugMode, _ := cmd.Flags().GetBool("debug")
		engine := compare.NewCompareEngine(newEngine(debugMode))

		compSet, err := engine.CompareTaxOptions(cmd.Context(), plan.Name, plan.ToSimulationInput())
		if err != nil {
			return err
		}
		compSet.Source = args[0]

		format, _ := cmd.Flags().GetString("format")
		out, err := compare.FormatComparison(compSet, format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("debug", false, "Log engine diagnostics")

	rootCmd.AddCommand(compareCmd)
}
