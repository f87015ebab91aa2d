package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxProjectionYears caps the combined length of all deposit periods.
const MaxProjectionYears = 100

// TaxOption selects the taxable base applied to the projected capital.
type TaxOption string

const (
	// TaxWholeCapital taxes the entire balance.
	TaxWholeCapital TaxOption = "whole_capital"
	// TaxInterestOnly taxes only the growth above deposits.
	TaxInterestOnly TaxOption = "interest_only"
)

// taxOptionAliases maps accepted spellings (including the legacy form values) to canonical options.
var taxOptionAliases = map[string]TaxOption{
	"whole_capital":  TaxWholeCapital,
	"wholecapital":   TaxWholeCapital,
	"entire_capital": TaxWholeCapital,
	"capital":        TaxWholeCapital,
	"1":              TaxWholeCapital,
	"interest_only":  TaxInterestOnly,
	"interestonly":   TaxInterestOnly,
	"interest":       TaxInterestOnly,
	"2":              TaxInterestOnly,
}

// ParseTaxOption resolves a user supplied tax option.
func ParseTaxOption(s string) (TaxOption, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if opt, ok := taxOptionAliases[key]; ok {
		return opt, nil
	}
	return "", &ValidationError{Field: "tax_option", Reason: fmt.Sprintf("unknown tax option %q", s)}
}

// Valid reports whether the option is one of the two supported policies.
func (t TaxOption) Valid() bool {
	return t == TaxWholeCapital || t == TaxInterestOnly
}

// Label returns a human readable description.
func (t TaxOption) Label() string {
	switch t {
	case TaxWholeCapital:
		return "Entire capital"
	case TaxInterestOnly:
		return "Interest only"
	default:
		return string(t)
	}
}

// UnmarshalText accepts canonical names and aliases; it backs YAML and JSON decoding.
func (t *TaxOption) UnmarshalText(text []byte) error {
	opt, err := ParseTaxOption(string(text))
	if err != nil {
		return err
	}
	*t = opt
	return nil
}

// MarshalText always emits the canonical name.
func (t TaxOption) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// DepositPeriod is a run of months sharing one fixed monthly deposit.
type DepositPeriod struct {
	Years          int             `yaml:"years" json:"years"`
	MonthlyDeposit decimal.Decimal `yaml:"monthly_deposit" json:"monthlyDeposit"`
}

// Months returns the number of months the period covers.
func (p DepositPeriod) Months() int {
	return p.Years * 12
}

// SimulationInput holds everything the projection engine needs. Rates are decimal fractions.
type SimulationInput struct {
	NominalInterest      decimal.Decimal `yaml:"nominal_interest" json:"nominalInterest"`
	InflationRate        decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
	WithdrawalRate       decimal.Decimal `yaml:"withdrawal_rate" json:"withdrawalRate"`
	TaxRate              decimal.Decimal `yaml:"tax_rate" json:"taxRate"`
	InitialCapital       decimal.Decimal `yaml:"initial_capital" json:"initialCapital"`
	DesiredMonthlyIncome decimal.Decimal `yaml:"desired_monthly_income" json:"desiredMonthlyIncome"`
	TaxOption            TaxOption       `yaml:"tax_option" json:"taxOption"`
	Periods              []DepositPeriod `yaml:"periods" json:"periods"`
}

// TotalMonths is the sum of all period lengths in months.
func (in SimulationInput) TotalMonths() int {
	total := 0
	for _, p := range in.Periods {
		total += p.Months()
	}
	return total
}

// DeclaredDeposits is the initial capital plus every configured monthly deposit.
func (in SimulationInput) DeclaredDeposits() decimal.Decimal {
	total := in.InitialCapital
	for _, p := range in.Periods {
		total = total.Add(p.MonthlyDeposit.Mul(decimal.NewFromInt(int64(p.Months()))))
	}
	return total
}

// Clone returns a copy whose period slice is independent of the receiver's.
func (in SimulationInput) Clone() SimulationInput {
	out := in
	out.Periods = append([]DepositPeriod(nil), in.Periods...)
	return out
}

// Validate checks the input domain. Every failure wraps ErrInvalidInput.
func (in SimulationInput) Validate() error {
	minusOne := decimal.NewFromInt(-1)
	if in.NominalInterest.LessThanOrEqual(minusOne) {
		return &ValidationError{Field: "nominal_interest", Reason: "must be greater than -100%"}
	}
	if in.InflationRate.LessThanOrEqual(minusOne) {
		return &ValidationError{Field: "inflation_rate", Reason: "must be greater than -100%"}
	}
	if in.WithdrawalRate.IsNegative() {
		return &ValidationError{Field: "withdrawal_rate", Reason: "cannot be negative"}
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return &ValidationError{Field: "tax_rate", Reason: "must be between 0 and 1"}
	}
	if in.InitialCapital.IsNegative() {
		return &ValidationError{Field: "initial_capital", Reason: "cannot be negative"}
	}
	if in.DesiredMonthlyIncome.IsNegative() {
		return &ValidationError{Field: "desired_monthly_income", Reason: "cannot be negative"}
	}
	if !in.TaxOption.Valid() {
		return &ValidationError{Field: "tax_option", Reason: fmt.Sprintf("unknown tax option %q", in.TaxOption)}
	}
	if len(in.Periods) == 0 {
		return &ValidationError{Field: "periods", Reason: "at least one deposit period is required"}
	}

	years := 0
	for i, p := range in.Periods {
		if p.Years < 0 {
			return &ValidationError{Field: fmt.Sprintf("periods[%d].years", i), Reason: "cannot be negative"}
		}
		years += p.Years
		if years > MaxProjectionYears {
			return &ValidationError{Field: "periods", Reason: fmt.Sprintf("total length cannot exceed %d years", MaxProjectionYears)}
		}
	}

	return nil
}
