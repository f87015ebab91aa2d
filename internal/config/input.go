package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PlanFile is the on-disk and form representation of a projection. Rates are percentages
// (7 means 7%); ToSimulationInput converts them to the fractions the engine expects.
type PlanFile struct {
	Name                   string                 `yaml:"name,omitempty" json:"name,omitempty"`
	NominalInterestPercent decimal.Decimal        `yaml:"nominal_interest_percent" json:"nominalInterestPercent"`
	InflationRatePercent   decimal.Decimal        `yaml:"inflation_rate_percent" json:"inflationRatePercent"`
	WithdrawalRatePercent  decimal.Decimal        `yaml:"withdrawal_rate_percent" json:"withdrawalRatePercent"`
	TaxRatePercent         decimal.Decimal        `yaml:"tax_rate_percent" json:"taxRatePercent"`
	InitialCapital         decimal.Decimal        `yaml:"initial_capital" json:"initialCapital"`
	DesiredMonthlyIncome   decimal.Decimal        `yaml:"desired_monthly_income" json:"desiredMonthlyIncome"`
	TaxOption              domain.TaxOption       `yaml:"tax_option,omitempty" json:"taxOption,omitempty"`
	Periods                []domain.DepositPeriod `yaml:"periods" json:"periods"`
}

// DefaultPlan returns the plan the input form starts from.
func DefaultPlan() PlanFile {
	return PlanFile{
		NominalInterestPercent: decimal.NewFromInt(7),
		InflationRatePercent:   decimal.NewFromInt(2),
		WithdrawalRatePercent:  decimal.NewFromInt(4),
		TaxRatePercent:         decimal.NewFromInt(15),
		InitialCapital:         decimal.NewFromInt(10000),
		DesiredMonthlyIncome:   decimal.NewFromInt(1000),
		TaxOption:              domain.TaxWholeCapital,
		Periods:                []domain.DepositPeriod{{Years: 10, MonthlyDeposit: decimal.NewFromInt(200)}},
	}
}

var hundred = decimal.NewFromInt(100)

func percentToFraction(p decimal.Decimal) decimal.Decimal {
	return p.Div(hundred)
}

func fractionToPercent(f decimal.Decimal) decimal.Decimal {
	return f.Mul(hundred)
}

// ToSimulationInput converts the plan into engine input. A missing tax option means whole capital.
func (p PlanFile) ToSimulationInput() domain.SimulationInput {
	option := p.TaxOption
	if option == "" {
		option = domain.TaxWholeCapital
	}
	return domain.SimulationInput{
		NominalInterest:      percentToFraction(p.NominalInterestPercent),
		InflationRate:        percentToFraction(p.InflationRatePercent),
		WithdrawalRate:       percentToFraction(p.WithdrawalRatePercent),
		TaxRate:              percentToFraction(p.TaxRatePercent),
		InitialCapital:       p.InitialCapital,
		DesiredMonthlyIncome: p.DesiredMonthlyIncome,
		TaxOption:            option,
		Periods:              append([]domain.DepositPeriod(nil), p.Periods...),
	}
}

// PlanFromSimulationInput is the inverse of ToSimulationInput, used to load a saved run back into a form.
func PlanFromSimulationInput(name string, in domain.SimulationInput) PlanFile {
	return PlanFile{
		Name:                   name,
		NominalInterestPercent: fractionToPercent(in.NominalInterest),
		InflationRatePercent:   fractionToPercent(in.InflationRate),
		WithdrawalRatePercent:  fractionToPercent(in.WithdrawalRate),
		TaxRatePercent:         fractionToPercent(in.TaxRate),
		InitialCapital:         in.InitialCapital,
		DesiredMonthlyIncome:   in.DesiredMonthlyIncome,
		TaxOption:              in.TaxOption,
		Periods:                append([]domain.DepositPeriod(nil), in.Periods...),
	}
}

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML or JSON file and validates it
func (ip *InputParser) LoadFromFile(filename string) (*PlanFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	plan, err := ip.Parse(data, formatFromExtension(filename))
	if err != nil {
		return nil, err
	}

	if err := ip.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return plan, nil
}

// Parse decodes plan data. format is "yaml" or "json"; anything else is sniffed from the content.
func (ip *InputParser) Parse(data []byte, format string) (*PlanFile, error) {
	if format == "" {
		format = sniffFormat(data)
	}

	var plan PlanFile
	switch format {
	case "json":
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return &plan, nil
}

// ValidatePlan converts the plan and runs the engine's input validation on it
func (ip *InputParser) ValidatePlan(plan *PlanFile) error {
	if plan == nil {
		return &domain.ValidationError{Field: "plan", Reason: "is required"}
	}
	return plan.ToSimulationInput().Validate()
}

// SavePlan writes a plan to disk; the extension picks YAML or JSON
func (ip *InputParser) SavePlan(plan *PlanFile, filename string) error {
	var (
		data []byte
		err  error
	)
	if formatFromExtension(filename) == "json" {
		data, err = json.MarshalIndent(plan, "", "  ")
	} else {
		data, err = yaml.Marshal(plan)
	}
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

func formatFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

func sniffFormat(data []byte) string {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return "json"
	}
	return "yaml"
}
