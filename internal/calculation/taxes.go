package calculation

import (
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// GoalEvaluator applies the tax policy to running totals and checks them against the rise threshold.
type GoalEvaluator struct {
	option    domain.TaxOption
	keepRatio decimal.Decimal // 1 - taxRate
	threshold *decimal.Decimal
}

// NewGoalEvaluator precomputes the rise threshold:
//
//	desiredMonthlyIncome * 12 / (withdrawalRate * (1 - taxRate))
//
// A zero withdrawal rate or a 100% tax rate leaves no threshold, so the goal is never reached.
func NewGoalEvaluator(in domain.SimulationInput) GoalEvaluator {
	keep := decimal.NewFromInt(1).Sub(in.TaxRate)
	ev := GoalEvaluator{option: in.TaxOption, keepRatio: keep}

	divisor := in.WithdrawalRate.Mul(keep)
	if divisor.IsZero() {
		return ev
	}
	threshold := in.DesiredMonthlyIncome.Mul(decimal.NewFromInt(12)).Div(divisor)
	ev.threshold = &threshold
	return ev
}

// Threshold returns the rise threshold, or nil when it is undefined.
func (e GoalEvaluator) Threshold() *decimal.Decimal {
	return e.threshold
}

// CapitalAfterTax is the provisional after-tax capital for a month, using deposits made so far.
func (e GoalEvaluator) CapitalAfterTax(capital, depositsSoFar decimal.Decimal) decimal.Decimal {
	if e.option == domain.TaxWholeCapital {
		return capital.Mul(e.keepRatio)
	}
	interest := capital.Sub(depositsSoFar)
	return depositsSoFar.Add(interest.Mul(e.keepRatio))
}

// Meets reports whether after-tax capital reaches the threshold.
func (e GoalEvaluator) Meets(capitalAfterTax decimal.Decimal) bool {
	return e.threshold != nil && capitalAfterTax.GreaterThanOrEqual(*e.threshold)
}

// Aggregate holds the end-of-projection tax and income figures.
type Aggregate struct {
	TotalDeposits         decimal.Decimal
	InterestEarned        decimal.Decimal
	TaxAmount             decimal.Decimal
	CapitalAfterTax       decimal.Decimal
	MonthlyIncomeAfterTax decimal.Decimal
}

// FinalAggregate taxes the terminal capital against the declared deposits of every configured period.
// CapitalAfterTax uses the deposits made up to a month; this uses the declared total.
func FinalAggregate(in domain.SimulationInput, finalCapital decimal.Decimal) Aggregate {
	totalDeposits := in.DeclaredDeposits()
	interest := finalCapital.Sub(totalDeposits)

	var tax decimal.Decimal
	if in.TaxOption == domain.TaxWholeCapital {
		tax = finalCapital.Mul(in.TaxRate)
	} else {
		tax = interest.Mul(in.TaxRate)
	}

	afterTax := finalCapital.Sub(tax)
	return Aggregate{
		TotalDeposits:         totalDeposits,
		InterestEarned:        interest,
		TaxAmount:             tax,
		CapitalAfterTax:       afterTax,
		MonthlyIncomeAfterTax: afterTax.Mul(in.WithdrawalRate).Div(decimal.NewFromInt(12)),
	}
}
