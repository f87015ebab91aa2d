package output

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as dollars with thousands separators and 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return tuistyles.FormatCurrency(amount) }

// FormatPercentage formats a fraction (0.07) as a percentage with 2 decimals (7.00%).
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// FormatGoal renders the goal position or "not reached".
func FormatGoal(g *domain.GoalReachedAt) string {
	if g == nil {
		return "not reached"
	}
	return fmt.Sprintf("%d years and %d months", g.Years, g.Months)
}

// FormatThreshold renders the rise threshold or "undefined" when withdrawal or tax make it infinite.
func FormatThreshold(t *decimal.Decimal) string {
	if t == nil {
		return "undefined"
	}
	return FormatCurrency(*t)
}

// Assessment is the one-line success or shortfall verdict shown under the results.
func Assessment(r *Report) string {
	if !r.TargetMet() {
		return "SHORTFALL: Target not met."
	}
	if g := r.Result.GoalReachedAt; g != nil {
		return fmt.Sprintf("SUCCESS: Target met! Achieved after %d years and %d months.", g.Years, g.Months)
	}
	return "SUCCESS: Target met!"
}
