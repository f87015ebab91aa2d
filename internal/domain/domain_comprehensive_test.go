package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func validInput() SimulationInput {
	return SimulationInput{
		NominalInterest:      decimal.NewFromFloat(0.07),
		InflationRate:        decimal.NewFromFloat(0.02),
		WithdrawalRate:       decimal.NewFromFloat(0.04),
		TaxRate:              decimal.NewFromFloat(0.15),
		InitialCapital:       decimal.NewFromInt(10000),
		DesiredMonthlyIncome: decimal.NewFromInt(1000),
		TaxOption:            TaxWholeCapital,
		Periods:              []DepositPeriod{{Years: 10, MonthlyDeposit: decimal.NewFromInt(200)}},
	}
}

func TestSimulationInput_TotalsAndClone(t *testing.T) {
	in := validInput()
	in.Periods = append(in.Periods, DepositPeriod{Years: 5, MonthlyDeposit: decimal.NewFromInt(100)})

	assert.Equal(t, 180, in.TotalMonths())
	// 10000 + 200*120 + 100*60
	assert.True(t, in.DeclaredDeposits().Equal(decimal.NewFromInt(40000)), "got %s", in.DeclaredDeposits())

	copied := in.Clone()
	copied.Periods[0].MonthlyDeposit = decimal.NewFromInt(999)
	assert.True(t, in.Periods[0].MonthlyDeposit.Equal(decimal.NewFromInt(200)), "clone must not share periods")
}

func TestSimulationInput_Validate(t *testing.T) {
	require.NoError(t, validInput().Validate())

	tests := []struct {
		name   string
		mutate func(*SimulationInput)
		field  string
	}{
		{"empty periods", func(in *SimulationInput) { in.Periods = nil }, "periods"},
		{"negative years", func(in *SimulationInput) { in.Periods[0].Years = -1 }, "periods[0].years"},
		{"negative capital", func(in *SimulationInput) { in.InitialCapital = decimal.NewFromInt(-1) }, "initial_capital"},
		{"negative income", func(in *SimulationInput) { in.DesiredMonthlyIncome = decimal.NewFromInt(-5) }, "desired_monthly_income"},
		{"negative withdrawal", func(in *SimulationInput) { in.WithdrawalRate = decimal.NewFromFloat(-0.01) }, "withdrawal_rate"},
		{"tax above one", func(in *SimulationInput) { in.TaxRate = decimal.NewFromFloat(1.2) }, "tax_rate"},
		{"inflation at -100%", func(in *SimulationInput) { in.InflationRate = decimal.NewFromInt(-1) }, "inflation_rate"},
		{"nominal below -100%", func(in *SimulationInput) { in.NominalInterest = decimal.NewFromFloat(-1.5) }, "nominal_interest"},
		{"unknown tax option", func(in *SimulationInput) { in.TaxOption = "bogus" }, "tax_option"},
		{"horizon too long", func(in *SimulationInput) { in.Periods[0].Years = MaxProjectionYears + 1 }, "periods"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSimulationInput_ValidateAllowsEdgeValues(t *testing.T) {
	in := validInput()
	in.Periods[0].Years = 0
	in.TaxRate = decimal.NewFromInt(1)
	in.WithdrawalRate = decimal.Zero
	in.NominalInterest = decimal.NewFromFloat(-0.05)
	in.Periods[0].MonthlyDeposit = decimal.NewFromInt(-50)

	assert.NoError(t, in.Validate())
}

func TestParseTaxOption(t *testing.T) {
	cases := map[string]TaxOption{
		"whole_capital":  TaxWholeCapital,
		"Whole-Capital":  TaxWholeCapital,
		"1":              TaxWholeCapital,
		"entire_capital": TaxWholeCapital,
		"interest_only":  TaxInterestOnly,
		" 2 ":            TaxInterestOnly,
		"interest":       TaxInterestOnly,
	}
	for raw, want := range cases {
		got, err := ParseTaxOption(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseTaxOption("3")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaxOption_DecodesFromYAMLAndJSON(t *testing.T) {
	var fromYAML struct {
		Option TaxOption `yaml:"option"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("option: \"2\"\n"), &fromYAML))
	assert.Equal(t, TaxInterestOnly, fromYAML.Option)

	var fromJSON struct {
		Option TaxOption `json:"option"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"option":"entire_capital"}`), &fromJSON))
	assert.Equal(t, TaxWholeCapital, fromJSON.Option)

	out, err := json.Marshal(fromJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"option":"whole_capital"}`, string(out))
}

func TestGoalFromMonth(t *testing.T) {
	assert.Equal(t, GoalReachedAt{Years: 0, Months: 1}, GoalFromMonth(1))
	assert.Equal(t, GoalReachedAt{Years: 1, Months: 0}, GoalFromMonth(12))
	assert.Equal(t, GoalReachedAt{Years: 8, Months: 7}, GoalFromMonth(103))
	assert.Equal(t, 103, GoalFromMonth(103).TotalMonths())
}

func TestSensitivityParameter_ValuesAndApply(t *testing.T) {
	p := SensitivityParameter{Name: "monthly_deposit", MinValue: decimal.NewFromInt(100), MaxValue: decimal.NewFromInt(300), Steps: 3}
	values := p.Values()
	require.Len(t, values, 3)
	assert.True(t, values[1].Equal(decimal.NewFromInt(200)))

	in := validInput()
	in.Periods = append(in.Periods, DepositPeriod{Years: 2, MonthlyDeposit: decimal.NewFromInt(50)})
	out, err := p.Apply(in, values[2])
	require.NoError(t, err)
	for _, period := range out.Periods {
		assert.True(t, period.MonthlyDeposit.Equal(decimal.NewFromInt(300)))
	}
	assert.True(t, in.Periods[1].MonthlyDeposit.Equal(decimal.NewFromInt(50)), "apply must not mutate the base input")

	_, err = SensitivityParameter{Name: "nope"}.Apply(in, decimal.Zero)
	assert.Error(t, err)
}

func TestSensitivitySummary_RiskLevel(t *testing.T) {
	levels := map[int64]string{2: "LOW", 10: "MEDIUM", 20: "HIGH", 45: "CRITICAL"}
	for swing, want := range levels {
		s := SensitivitySummary{MaxIncomeSwingPct: decimal.NewFromInt(-swing)}
		assert.Equal(t, want, s.DetermineRiskLevel())
	}
}

func TestSavedRun_Summary(t *testing.T) {
	goal := GoalFromMonth(30)
	run := SavedRun{ID: "abc", Name: "plan", Result: SimulationResult{FinalCapital: decimal.NewFromInt(5), GoalReachedAt: &goal}}
	s := run.Summary()
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, &goal, s.GoalReachedAt)
	assert.True(t, s.FinalCapital.Equal(decimal.NewFromInt(5)))
}
