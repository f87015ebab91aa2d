package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [plan-file]",
	Short: "Sweep one parameter and measure its effect",
	Long: `Projects the plan once per value of a parameter and compares every run with the plan itself.
Rates are fractions (0.05 is 5%), amounts are dollars.

Parameters: nominal_interest, inflation_rate, withdrawal_rate, tax_rate,
initial_capital, desired_monthly_income, monthly_deposit

Examples:
  # Predefined range for a rate
  riseplan sensitivity plan.yaml --parameter inflation_rate

  # Custom range
  riseplan sensitivity plan.yaml --parameter nominal_interest --range 0.03-0.09 --steps 7

  # Dollar amounts need a range
  riseplan sensitivity plan.yaml --parameter monthly_deposit --range 100-500 --steps 5 --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivityAnalysis,
}

var (
	sensitivityParameter    string
	sensitivityRange        string
	sensitivitySteps        int
	sensitivityOutputFormat string
)

func init() {
	sensitivityCmd.Flags().StringVar(&sensitivityParameter, "parameter", "nominal_interest", "Parameter to sweep")
	sensitivityCmd.Flags().StringVar(&sensitivityRange, "range", "", "Sweep range (format: min-max); predefined for rates")
	sensitivityCmd.Flags().IntVar(&sensitivitySteps, "steps", 5, "Number of values in the sweep")
	sensitivityCmd.Flags().StringVarP(&sensitivityOutputFormat, "format", "f", "console", "Output format (console, csv, json)")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	parameter, err := resolveParameter(sensitivityParameter, sensitivityRange, sensitivitySteps, cmd.Flags().Changed("steps"))
	if err != nil {
		return err
	}

	analyzer := calculation.NewSensitivityAnalyzer(newEngine(false))
	analysis, err := analyzer.AnalyzeSingleParameter(cmd.Context(), plan.ToSimulationInput(), parameter)
	if err != nil {
		return err
	}

	out, err := output.NewSensitivityFormatter(sensitivityOutputFormat).FormatSensitivityAnalysis(analysis)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

var sweepableParameters = map[string]bool{
	"nominal_interest":       true,
	"inflation_rate":         true,
	"withdrawal_rate":        true,
	"tax_rate":               true,
	"initial_capital":        true,
	"desired_monthly_income": true,
	"monthly_deposit":        true,
}

// resolveParameter starts from the predefined parameter when one exists and applies the range and steps over it.
func resolveParameter(name, rangeStr string, steps int, stepsSet bool) (domain.SensitivityParameter, error) {
	if !sweepableParameters[name] {
		return domain.SensitivityParameter{}, fmt.Errorf("unknown parameter %q", name)
	}

	param, predefined := domain.LookupCommonParameter(name)
	if !predefined {
		param = domain.SensitivityParameter{Name: name, Unit: "dollars"}
	}

	if rangeStr != "" {
		minVal, maxVal, err := parseRange(rangeStr)
		if err != nil {
			return domain.SensitivityParameter{}, err
		}
		param.MinValue, param.MaxValue = minVal, maxVal
	} else if !predefined {
		return domain.SensitivityParameter{}, fmt.Errorf("parameter %s needs --range", name)
	}

	if stepsSet || !predefined {
		param.Steps = steps
	}
	return param, nil
}

// parseRange parses "min-max". A leading minus on min is allowed for negative rates.
func parseRange(s string) (decimal.Decimal, decimal.Decimal, error) {
	sep := -1
	if s != "" {
		sep = strings.Index(s[1:], "-")
	}
	if sep < 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range format %q: use min-max", s)
	}
	sep++

	minVal, err := decimal.NewFromString(strings.TrimSpace(s[:sep]))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid min value: %w", err)
	}
	maxVal, err := decimal.NewFromString(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid max value: %w", err)
	}
	if maxVal.LessThan(minVal) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid range %q: max is below min", s)
	}
	return minVal, maxVal, nil
}
