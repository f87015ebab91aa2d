package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityFormatter renders a single-parameter sweep
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error)
	Name() string
}

func formatParamValue(p domain.SensitivityParameter, v decimal.Decimal) string {
	if p.IsMonetary() {
		return FormatCurrency(v)
	}
	return FormatPercentage(v)
}

// SensitivityConsoleFormatter formats sensitivity analysis output for console
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Results) == 0 {
		return "", fmt.Errorf("no results in analysis")
	}
	var buf bytes.Buffer
	param := analysis.Parameter

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(strings.ReplaceAll(param.Name, "_", " ")))
	fmt.Fprintln(&buf, strings.Repeat("=", 78))
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n", formatParamValue(param, param.MinValue), formatParamValue(param, param.MaxValue), param.Steps)
	if param.Description != "" {
		fmt.Fprintf(&buf, "Description: %s\n", param.Description)
	}
	fmt.Fprintf(&buf, "Base monthly income after tax: %s\n", FormatCurrency(analysis.BaseMetrics.MonthlyIncomeAfterTax))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-14s %18s %18s %16s %10s %8s\n", "Value", "Final capital", "After tax", "Income/month", "Change", "Goal")
	fmt.Fprintln(&buf, strings.Repeat("-", 78))
	for _, r := range analysis.Results {
		m := r.KeyMetrics
		goal := "-"
		if m.GoalReachedAt != nil {
			goal = fmt.Sprintf("%dy%dm", m.GoalReachedAt.Years, m.GoalReachedAt.Months)
		}
		fmt.Fprintf(&buf, "%-14s %18s %18s %16s %9s%% %8s\n",
			formatParamValue(param, r.ParameterValue),
			FormatCurrency(m.FinalCapital),
			FormatCurrency(m.CapitalAfterTax),
			FormatCurrency(m.MonthlyIncomeAfterTax),
			m.IncomeChangePct.StringFixed(1),
			goal)
	}
	fmt.Fprintln(&buf)

	s := analysis.Summary
	fmt.Fprintf(&buf, "Largest income swing: %s%%\n", s.MaxIncomeSwingPct.StringFixed(1))
	fmt.Fprintf(&buf, "Target met in %d of %d cases\n", s.TargetMetCount, len(analysis.Results))
	if s.EarliestGoal != nil && s.LatestGoal != nil {
		fmt.Fprintf(&buf, "Goal reached between %s and %s\n", FormatGoal(s.EarliestGoal), FormatGoal(s.LatestGoal))
	}
	fmt.Fprintf(&buf, "RISK LEVEL: %s\n", s.RiskLevel)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RECOMMENDATIONS:")
	for _, rec := range s.Recommendations {
		fmt.Fprintf(&buf, "  • %s\n", rec)
	}

	return buf.String(), nil
}

// SensitivityCSVFormatter writes one row per sweep point
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to format")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"parameter_name", "parameter_value", "final_capital", "capital_after_tax", "monthly_income_after_tax", "income_change_pct", "goal_month", "target_met"}); err != nil {
		return "", err
	}
	for _, r := range analysis.Results {
		m := r.KeyMetrics
		goal := ""
		if m.GoalReachedAt != nil {
			goal = strconv.Itoa(m.GoalReachedAt.TotalMonths())
		}
		if err := w.Write([]string{
			analysis.Parameter.Name,
			r.ParameterValue.String(),
			m.FinalCapital.StringFixed(2),
			m.CapitalAfterTax.StringFixed(2),
			m.MonthlyIncomeAfterTax.StringFixed(2),
			m.IncomeChangePct.StringFixed(2),
			goal,
			strconv.FormatBool(m.TargetMet),
		}); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// SensitivityJSONFormatter formats sensitivity analysis output as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.ParameterSensitivityAnalysis) (string, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch NormalizeFormatName(format) {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}
