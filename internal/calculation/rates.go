package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Rates holds the inflation-adjusted annual rate and its monthly equivalent.
type Rates struct {
	RealAnnual decimal.Decimal
	Monthly    decimal.Decimal
}

// NormalizeRates applies the Fisher relation to get the real annual rate, then
// converts it to the monthly rate that compounds to the same annual growth.
func NormalizeRates(nominal, inflation decimal.Decimal) (Rates, error) {
	one := decimal.NewFromInt(1)

	inflationFactor := one.Add(inflation)
	if !inflationFactor.IsPositive() {
		return Rates{}, &domain.ValidationError{Field: "inflation_rate", Reason: "must be greater than -100%"}
	}
	nominalFactor := one.Add(nominal)
	if !nominalFactor.IsPositive() {
		return Rates{}, &domain.ValidationError{Field: "nominal_interest", Reason: "must be greater than -100%"}
	}

	realRate := nominalFactor.Div(inflationFactor).Sub(one)

	// decimal has no fractional power; the twelfth root goes through float64.
	monthlyFloat := math.Pow(one.Add(realRate).InexactFloat64(), 1.0/12.0) - 1
	if math.IsNaN(monthlyFloat) || math.IsInf(monthlyFloat, 0) {
		return Rates{}, fmt.Errorf("%w: monthly rate is not finite for real rate %s", domain.ErrInvalidInput, realRate)
	}

	return Rates{
		RealAnnual: realRate,
		Monthly:    decimal.NewFromFloat(monthlyFloat),
	}, nil
}
