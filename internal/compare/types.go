package compare

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the headline numbers of one projection and its deltas against the base
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	TaxOption    domain.TaxOption         `json:"taxOption"`
	Result       *domain.SimulationResult `json:"-"`

	FinalCapital          decimal.Decimal       `json:"finalCapital"`
	TotalDeposits         decimal.Decimal       `json:"totalDeposits"`
	TaxAmount             decimal.Decimal       `json:"taxAmount"`
	CapitalAfterTax       decimal.Decimal       `json:"capitalAfterTax"`
	MonthlyIncomeAfterTax decimal.Decimal       `json:"monthlyIncomeAfterTax"`
	GoalReachedAt         *domain.GoalReachedAt `json:"goalReachedAt"`
	TargetMet             bool                  `json:"targetMet"`

	// Comparison to base
	IncomeDiffFromBase decimal.Decimal `json:"incomeDiffFromBase"`
	IncomePctFromBase  decimal.Decimal `json:"incomePctFromBase"`
	TaxDiffFromBase    decimal.Decimal `json:"taxDiffFromBase"`
	// GoalMonthsDiff is nil unless both projections reached the goal; negative means sooner.
	GoalMonthsDiff *int `json:"goalMonthsDiff,omitempty"`
}

// ComparisonSet is a base projection plus the alternatives measured against it
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Source             string             `json:"source,omitempty"`
}

// All returns the base followed by the alternatives.
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}

// MetricsCalculator extracts comparison metrics from projection results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics builds the comparison row for one scenario
func (mc *MetricsCalculator) CalculateMetrics(s Scenario, result *domain.SimulationResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:          s.Name,
		Description:           s.Description,
		TaxOption:             s.Input.TaxOption,
		Result:                result,
		FinalCapital:          result.FinalCapital,
		TotalDeposits:         result.TotalDeposits,
		TaxAmount:             result.TaxAmount,
		CapitalAfterTax:       result.CapitalAfterTax,
		MonthlyIncomeAfterTax: result.MonthlyIncomeAfterTax,
		GoalReachedAt:         result.GoalReachedAt,
		TargetMet:             result.TargetMet(s.Input.DesiredMonthlyIncome),
	}
}

// CalculateComparison fills in the deltas of scenario against base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.IncomeDiffFromBase = scenario.MonthlyIncomeAfterTax.Sub(base.MonthlyIncomeAfterTax)

	if !base.MonthlyIncomeAfterTax.IsZero() {
		scenario.IncomePctFromBase = scenario.IncomeDiffFromBase.
			Div(base.MonthlyIncomeAfterTax).
			Mul(decimal.NewFromInt(100))
	}

	scenario.TaxDiffFromBase = scenario.TaxAmount.Sub(base.TaxAmount)

	if scenario.GoalReachedAt != nil && base.GoalReachedAt != nil {
		diff := scenario.GoalReachedAt.TotalMonths() - base.GoalReachedAt.TotalMonths()
		scenario.GoalMonthsDiff = &diff
	}

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	bestIncome := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MonthlyIncomeAfterTax.GreaterThan(bestIncome.MonthlyIncomeAfterTax) {
			bestIncome = alt
		}
	}
	if bestIncome != compSet.BaseResult {
		diff := bestIncome.MonthlyIncomeAfterTax.Sub(compSet.BaseResult.MonthlyIncomeAfterTax)
		recommendations = append(recommendations,
			"Best Income: "+bestIncome.ScenarioName+" provides $"+diff.StringFixed(2)+
				" more monthly income after tax than "+compSet.BaseScenarioName)
	}

	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TaxAmount.LessThan(lowestTax.TaxAmount) {
			lowestTax = alt
		}
	}
	if lowestTax != compSet.BaseResult {
		savings := compSet.BaseResult.TaxAmount.Sub(lowestTax.TaxAmount)
		recommendations = append(recommendations,
			"Lowest Taxes: "+lowestTax.ScenarioName+" saves $"+savings.StringFixed(0)+" in tax")
	}

	// A goal reached beats no goal; among reached goals, earlier wins.
	earliest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.GoalReachedAt == nil {
			continue
		}
		if earliest.GoalReachedAt == nil || alt.GoalReachedAt.TotalMonths() < earliest.GoalReachedAt.TotalMonths() {
			earliest = alt
		}
	}
	if earliest != compSet.BaseResult {
		g := earliest.GoalReachedAt
		recommendations = append(recommendations,
			fmt.Sprintf("Earliest Goal: %s reaches the goal after %d years and %d months", earliest.ScenarioName, g.Years, g.Months))
	}

	if compSet.BaseResult.TargetMet {
		return recommendations
	}
	for _, alt := range compSet.AlternativeResults {
		if alt.TargetMet {
			recommendations = append(recommendations,
				"Target: "+alt.ScenarioName+" meets the desired monthly income where "+compSet.BaseScenarioName+" does not")
		}
	}

	return recommendations
}
