package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Tax Option",
		"Final Capital",
		"Total Deposits",
		"Tax Amount",
		"Capital After Tax",
		"Monthly Income After Tax",
		"Goal Month",
		"Target Met",
		"Income Diff from Base",
		"Income % Change",
		"Tax Diff from Base",
		"Goal Months Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row; unreached goals are empty cells
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	goal := ""
	if result.GoalReachedAt != nil {
		goal = strconv.Itoa(result.GoalReachedAt.TotalMonths())
	}
	goalDiff := ""
	if result.GoalMonthsDiff != nil {
		goalDiff = strconv.Itoa(*result.GoalMonthsDiff)
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		string(result.TaxOption),
		result.FinalCapital.StringFixed(2),
		result.TotalDeposits.StringFixed(2),
		result.TaxAmount.StringFixed(2),
		result.CapitalAfterTax.StringFixed(2),
		result.MonthlyIncomeAfterTax.StringFixed(2),
		goal,
		strconv.FormatBool(result.TargetMet),
		result.IncomeDiffFromBase.StringFixed(2),
		result.IncomePctFromBase.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		goalDiff,
	}
}
