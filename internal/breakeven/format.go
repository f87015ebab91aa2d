package breakeven

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("DEPOSIT SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Solve For:           %s\n", result.Request.Target))
	sb.WriteString(fmt.Sprintf("Goal:                %s\n", result.Request.Goal))
	if result.Request.Constraints.Years > 0 {
		sb.WriteString(fmt.Sprintf("Horizon:             %d years\n", result.Request.Constraints.Years))
	}
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	switch result.Request.Target {
	case OptimizeMonthlyDeposit:
		sb.WriteString(fmt.Sprintf("Monthly Deposit:     $%s\n", tf.formatCurrency(result.OptimalValue)))
	case OptimizeInitialCapital:
		sb.WriteString(fmt.Sprintf("Initial Capital:     $%s\n", tf.formatCurrency(result.OptimalValue)))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Final Capital:           $%s\n", tf.formatCurrency(result.FinalCapital)))
	sb.WriteString(fmt.Sprintf("Total Deposits:          $%s\n", tf.formatCurrency(result.TotalDeposits)))
	sb.WriteString(fmt.Sprintf("Monthly Income (net):    $%s\n", tf.formatCurrency(result.MonthlyIncomeAfterTax)))
	if g := result.GoalReachedAt; g != nil {
		sb.WriteString(fmt.Sprintf("Goal Reached After:      %d years %d months\n", g.Years, g.Months))
	} else {
		sb.WriteString("Goal Reached After:      not reached\n")
	}
	sb.WriteString("\n")

	if result.Request.Goal == GoalMeetIncome {
		target := result.Request.Input.DesiredMonthlyIncome
		diff := result.MonthlyIncomeAfterTax.Sub(target)
		sb.WriteString("TARGET INCOME MATCH\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Target Income:    $%s\n", tf.formatCurrency(target)))
		sb.WriteString(fmt.Sprintf("Achieved Income:  $%s\n", tf.formatCurrency(result.MonthlyIncomeAfterTax)))
		sb.WriteString(fmt.Sprintf("Difference:       %s$%s\n", tf.deltaSymbol(diff), tf.formatCurrency(diff.Abs())))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from solving every target
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("DEPOSIT SOLVER: ALL TARGETS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-18s %15s %15s %15s %12s\n",
		"Solve For", "Value", "Total Deposits", "Final Capital", "Goal"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		goal := "-"
		if g := res.GoalReachedAt; g != nil {
			goal = fmt.Sprintf("%dy %dm", g.Years, g.Months)
		}
		sb.WriteString(fmt.Sprintf("%-18s %15s %15s %15s %12s\n",
			tf.truncate(string(res.Request.Target), 18),
			"$"+res.OptimalValue.StringFixed(2),
			"$"+tf.formatShort(res.TotalDeposits),
			"$"+tf.formatShort(res.FinalCapital),
			goal))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
