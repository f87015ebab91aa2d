package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimelinePoint is one simulated month. CapitalAfterTax is provisional: it taxes the balance
// against the deposits made so far, not the declared total.
type TimelinePoint struct {
	Month            int             `json:"month"`
	CapitalBeforeTax decimal.Decimal `json:"capitalBeforeTax"`
	CapitalAfterTax  decimal.Decimal `json:"capitalAfterTax"`
}

// GoalReachedAt is the elapsed time at which after-tax capital first met the rise threshold
type GoalReachedAt struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// GoalFromMonth converts a 1-based month index into elapsed years and months.
func GoalFromMonth(month int) GoalReachedAt {
	return GoalReachedAt{Years: month / 12, Months: month % 12}
}

// TotalMonths returns the goal position as a month count.
func (g GoalReachedAt) TotalMonths() int {
	return g.Years*12 + g.Months
}

// SimulationResult is the complete output of one projection
type SimulationResult struct {
	RealInterestRate      decimal.Decimal `json:"realInterestRate"`
	FinalCapital          decimal.Decimal `json:"finalCapital"`
	TotalDeposits         decimal.Decimal `json:"totalDeposits"`
	InterestEarned        decimal.Decimal `json:"interestEarned"`
	TaxAmount             decimal.Decimal `json:"taxAmount"`
	CapitalAfterTax       decimal.Decimal `json:"capitalAfterTax"`
	MonthlyIncomeAfterTax decimal.Decimal `json:"monthlyIncomeAfterTax"`
	GoalReachedAt         *GoalReachedAt  `json:"goalReachedAt"`
	Timeline              []TimelinePoint `json:"timeline"`
	Periods               []DepositPeriod `json:"periods"`

	TotalMonths   int              `json:"totalMonths"`
	RiseThreshold *decimal.Decimal `json:"riseThreshold"` // nil when withdrawal rate is 0 or tax rate is 1
}

// TargetMet reports whether the final monthly after-tax income covers the desired income.
func (r *SimulationResult) TargetMet(desiredMonthlyIncome decimal.Decimal) bool {
	return r.MonthlyIncomeAfterTax.GreaterThanOrEqual(desiredMonthlyIncome)
}

// GoalReached reports whether the rise threshold was met during the projection.
func (r *SimulationResult) GoalReached() bool {
	return r.GoalReachedAt != nil
}

// CapitalSeries returns the before- and after-tax capital columns of the timeline as floats for plotting.
func (r *SimulationResult) CapitalSeries() (before, after []float64) {
	before = make([]float64, len(r.Timeline))
	after = make([]float64, len(r.Timeline))
	for i, p := range r.Timeline {
		before[i] = p.CapitalBeforeTax.InexactFloat64()
		after[i] = p.CapitalAfterTax.InexactFloat64()
	}
	return before, after
}

// SavedRun is a persisted projection: the inputs, the result and when it was produced.
type SavedRun struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Input     SimulationInput  `json:"inputs"`
	Result    SimulationResult `json:"results"`
	CreatedAt time.Time        `json:"timestamp"`
}

// RunSummary is the listing view of a saved run.
type RunSummary struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	CreatedAt             time.Time       `json:"timestamp"`
	FinalCapital          decimal.Decimal `json:"finalCapital"`
	MonthlyIncomeAfterTax decimal.Decimal `json:"monthlyIncomeAfterTax"`
	GoalReachedAt         *GoalReachedAt  `json:"goalReachedAt"`
}

// Summary projects a saved run into its listing view.
func (s SavedRun) Summary() RunSummary {
	return RunSummary{
		ID:                    s.ID,
		Name:                  s.Name,
		CreatedAt:             s.CreatedAt,
		FinalCapital:          s.Result.FinalCapital,
		MonthlyIncomeAfterTax: s.Result.MonthlyIncomeAfterTax,
		GoalReachedAt:         s.Result.GoalReachedAt,
	}
}
