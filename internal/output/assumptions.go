package output

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
)

// DefaultAssumptions lists the modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Deposits are made at the start of each month, before that month's growth",
	"Monthly growth compounds to the inflation-adjusted (real) annual rate",
	"Goal detection taxes interest against the deposits made so far",
	"Final figures tax interest against all declared deposits",
}

// InputSummary lists the plan inputs as labelled lines.
func InputSummary(r *Report) []string {
	in := r.Input
	return []string{
		"Nominal annual interest rate: " + FormatPercentage(in.NominalInterest),
		"Expected annual inflation rate: " + FormatPercentage(in.InflationRate),
		"Real annual interest rate (after inflation): " + FormatPercentage(r.Result.RealInterestRate),
		"Initial capital: " + FormatCurrency(in.InitialCapital),
		"Desired monthly income after tax: " + FormatCurrency(in.DesiredMonthlyIncome),
		"Planned withdrawal rate: " + FormatPercentage(in.WithdrawalRate),
		"Tax rate: " + FormatPercentage(in.TaxRate),
		"Tax applied to: " + in.TaxOption.Label(),
	}
}

// PeriodSummary describes each deposit period.
func PeriodSummary(periods []domain.DepositPeriod) []string {
	lines := make([]string, len(periods))
	for i, p := range periods {
		lines[i] = fmt.Sprintf("Period %d: %s per month for %d years", i+1, FormatCurrency(p.MonthlyDeposit), p.Years)
	}
	return lines
}

// ResultSummary lists the final figures as labelled lines.
func ResultSummary(r *Report) []string {
	res := r.Result
	return []string{
		"Capital before tax: " + FormatCurrency(res.FinalCapital),
		"Total deposits: " + FormatCurrency(res.TotalDeposits),
		"Interest earned before tax: " + FormatCurrency(res.InterestEarned),
		"Tax amount: " + FormatCurrency(res.TaxAmount),
		"Capital after tax: " + FormatCurrency(res.CapitalAfterTax),
		"Monthly income generated by after-tax capital: " + FormatCurrency(res.MonthlyIncomeAfterTax),
		"Rise threshold: " + FormatThreshold(res.RiseThreshold),
		"Goal reached: " + FormatGoal(res.GoalReachedAt),
	}
}
