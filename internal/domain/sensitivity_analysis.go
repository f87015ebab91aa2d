package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxSensitivitySteps bounds the number of projections one sweep may run.
const MaxSensitivitySteps = 200

// SensitivityParameter represents a parameter to sweep in sensitivity analysis
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	Unit        string          `yaml:"unit" json:"unit"` // "fraction" or "dollars"
	Description string          `yaml:"description" json:"description"`
}

// Values returns the evenly spaced sweep values from MinValue to MaxValue inclusive.
func (p SensitivityParameter) Values() []decimal.Decimal {
	if p.Steps <= 1 {
		return []decimal.Decimal{p.MinValue}
	}
	step := p.MaxValue.Sub(p.MinValue).Div(decimal.NewFromInt(int64(p.Steps - 1)))
	values := make([]decimal.Decimal, p.Steps)
	for i := range values {
		values[i] = p.MinValue.Add(step.Mul(decimal.NewFromInt(int64(i))))
	}
	values[len(values)-1] = p.MaxValue
	return values
}

// IsMonetary reports whether the parameter is a dollar amount rather than a rate.
func (p SensitivityParameter) IsMonetary() bool {
	switch p.Name {
	case "initial_capital", "desired_monthly_income", "monthly_deposit":
		return true
	}
	return p.Unit == "dollars"
}

// Apply returns a copy of the input with the named parameter set to value.
func (p SensitivityParameter) Apply(in SimulationInput, value decimal.Decimal) (SimulationInput, error) {
	out := in.Clone()
	switch p.Name {
	case "nominal_interest":
		out.NominalInterest = value
	case "inflation_rate":
		out.InflationRate = value
	case "withdrawal_rate":
		out.WithdrawalRate = value
	case "tax_rate":
		out.TaxRate = value
	case "initial_capital":
		out.InitialCapital = value
	case "desired_monthly_income":
		out.DesiredMonthlyIncome = value
	case "monthly_deposit":
		for i := range out.Periods {
			out.Periods[i].MonthlyDeposit = value
		}
	default:
		return in, fmt.Errorf("unknown sensitivity parameter %q", p.Name)
	}
	return out, nil
}

// ParameterSensitivityAnalysis represents a complete single-parameter sweep
type ParameterSensitivityAnalysis struct {
	Parameter   SensitivityParameter `json:"parameter"`
	BaseMetrics SensitivityMetrics   `json:"baseMetrics"`
	Results     []SensitivityResult  `json:"results"`
	Summary     SensitivitySummary   `json:"summary"`
}

// SensitivityResult is the outcome of one point in the sweep
type SensitivityResult struct {
	ParameterValue decimal.Decimal    `json:"parameterValue"`
	KeyMetrics     SensitivityMetrics `json:"keyMetrics"`
}

// SensitivityMetrics represents key metrics for sensitivity analysis
type SensitivityMetrics struct {
	FinalCapital          decimal.Decimal `json:"finalCapital"`
	CapitalAfterTax       decimal.Decimal `json:"capitalAfterTax"`
	MonthlyIncomeAfterTax decimal.Decimal `json:"monthlyIncomeAfterTax"`
	GoalReachedAt         *GoalReachedAt  `json:"goalReachedAt"`
	TargetMet             bool            `json:"targetMet"`
	IncomeChange          decimal.Decimal `json:"incomeChange"`
	IncomeChangePct       decimal.Decimal `json:"incomeChangePct"`
}

// MetricsFromResult extracts the sweep metrics from a projection.
func MetricsFromResult(r *SimulationResult, desiredMonthlyIncome decimal.Decimal) SensitivityMetrics {
	return SensitivityMetrics{
		FinalCapital:          r.FinalCapital,
		CapitalAfterTax:       r.CapitalAfterTax,
		MonthlyIncomeAfterTax: r.MonthlyIncomeAfterTax,
		GoalReachedAt:         r.GoalReachedAt,
		TargetMet:             r.TargetMet(desiredMonthlyIncome),
	}
}

// CompareTo fills the change fields relative to base.
func (sm *SensitivityMetrics) CompareTo(base SensitivityMetrics) {
	sm.IncomeChange = sm.MonthlyIncomeAfterTax.Sub(base.MonthlyIncomeAfterTax)
	if base.MonthlyIncomeAfterTax.IsZero() {
		sm.IncomeChangePct = decimal.Zero
		return
	}
	sm.IncomeChangePct = sm.IncomeChange.Div(base.MonthlyIncomeAfterTax.Abs()).Mul(decimal.NewFromInt(100))
}

// SensitivitySummary provides overall analysis summary
type SensitivitySummary struct {
	MaxIncomeSwingPct decimal.Decimal `json:"maxIncomeSwingPct"`
	TargetMetCount    int             `json:"targetMetCount"`
	EarliestGoal      *GoalReachedAt  `json:"earliestGoal"`
	LatestGoal        *GoalReachedAt  `json:"latestGoal"`
	RiskLevel         string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
	Recommendations   []string        `json:"recommendations"`
}

// DetermineRiskLevel maps the largest income swing to a risk level
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	score := ss.MaxIncomeSwingPct.Abs()
	switch {
	case score.LessThan(decimal.NewFromInt(5)):
		return "LOW"
	case score.LessThan(decimal.NewFromInt(15)):
		return "MEDIUM"
	case score.LessThan(decimal.NewFromInt(30)):
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// GenerateRecommendations generates recommendations based on sensitivity analysis
func (ss *SensitivitySummary) GenerateRecommendations(parameter string, points int) []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Plan is robust to changes in "+parameter)
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor "+parameter+" regularly")
	case "HIGH":
		recommendations = append(recommendations, "Plan is sensitive to "+parameter)
		recommendations = append(recommendations, "Consider conservative assumptions for "+parameter)
	case "CRITICAL":
		recommendations = append(recommendations, "Plan is highly sensitive to "+parameter)
		recommendations = append(recommendations, "Stress test with extreme values before committing")
	}

	if ss.TargetMetCount == 0 {
		recommendations = append(recommendations, "Target income is not met anywhere in the swept range")
	} else if ss.TargetMetCount < points {
		recommendations = append(recommendations, fmt.Sprintf("Target income is met in %d of %d cases", ss.TargetMetCount, points))
	}

	return recommendations
}

// Common sensitivity parameters
var (
	NominalInterestParam = SensitivityParameter{
		Name:        "nominal_interest",
		MinValue:    decimal.NewFromFloat(0.03),
		MaxValue:    decimal.NewFromFloat(0.10),
		Steps:       8,
		Unit:        "fraction",
		Description: "Nominal annual return",
	}

	InflationRateParam = SensitivityParameter{
		Name:        "inflation_rate",
		MinValue:    decimal.NewFromFloat(0.01),
		MaxValue:    decimal.NewFromFloat(0.05),
		Steps:       5,
		Unit:        "fraction",
		Description: "Expected annual inflation",
	}

	WithdrawalRateParam = SensitivityParameter{
		Name:        "withdrawal_rate",
		MinValue:    decimal.NewFromFloat(0.03),
		MaxValue:    decimal.NewFromFloat(0.05),
		Steps:       5,
		Unit:        "fraction",
		Description: "Planned annual withdrawal rate",
	}

	TaxRateParam = SensitivityParameter{
		Name:        "tax_rate",
		MinValue:    decimal.NewFromFloat(0.10),
		MaxValue:    decimal.NewFromFloat(0.30),
		Steps:       5,
		Unit:        "fraction",
		Description: "Tax rate on the taxable base",
	}
)

// GetCommonParameters returns the predefined sensitivity parameters
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		NominalInterestParam,
		InflationRateParam,
		WithdrawalRateParam,
		TaxRateParam,
	}
}

// LookupCommonParameter finds a predefined parameter by name.
func LookupCommonParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}
