package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PROJECTION COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 92) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.Source != "" {
		sb.WriteString(fmt.Sprintf("Plan: %s\n", compSet.Source))
	}
	sb.WriteString("\n")

	nameWidth := 32
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Final Capital",
		numWidth, "Tax",
		numWidth, "Income/Month",
		numWidth, "Goal"))
	sb.WriteString(strings.Repeat("-", 92) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 92) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))

			sb.WriteString(fmt.Sprintf("  Monthly Income:   %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.IncomeDiffFromBase),
				alt.IncomeDiffFromBase.Abs().StringFixed(2),
				alt.IncomePctFromBase.StringFixed(1)))

			if !alt.TaxDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Tax Impact:       %s$%s\n",
					tf.deltaSymbol(alt.TaxDiffFromBase),
					tf.formatDecimal(alt.TaxDiffFromBase.Abs())))
			}

			if alt.GoalMonthsDiff != nil && *alt.GoalMonthsDiff != 0 {
				sign := "+"
				if *alt.GoalMonthsDiff < 0 {
					sign = ""
				}
				sb.WriteString(fmt.Sprintf("  Goal Timing:      %s%d months\n", sign, *alt.GoalMonthsDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 92) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	goal := "not reached"
	if g := result.GoalReachedAt; g != nil {
		goal = fmt.Sprintf("%dy %dm", g.Years, g.Months)
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.FinalCapital),
		numWidth, "$"+tf.formatDecimal(result.TaxAmount),
		numWidth, "$"+result.MonthlyIncomeAfterTax.StringFixed(2),
		numWidth, goal)
}

// formatDecimal formats a decimal for display (in thousands)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns a + or - symbol for deltas
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		incomeChange := "="
		if alt.IncomeDiffFromBase.IsPositive() {
			incomeChange = fmt.Sprintf("+$%s/mo", alt.IncomeDiffFromBase.StringFixed(2))
		} else if alt.IncomeDiffFromBase.IsNegative() {
			incomeChange = fmt.Sprintf("-$%s/mo", alt.IncomeDiffFromBase.Abs().StringFixed(2))
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, incomeChange))
	}

	return sb.String()
}

// FormatComparison renders a comparison set as "table", "csv" or "json".
func FormatComparison(compSet *ComparisonSet, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "table", "console":
		return (&TableFormatter{}).Format(compSet), nil
	case "compact":
		return (&TableFormatter{}).FormatCompact(compSet) + "\n", nil
	case "csv":
		return (&CSVFormatter{}).Format(compSet)
	case "json":
		return (&JSONFormatter{Pretty: true}).Format(compSet)
	default:
		return "", fmt.Errorf("unknown comparison format %q (want table, compact, csv or json)", format)
	}
}
