package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/domain"
)

// Scenario is a named projection input
type Scenario struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Input       domain.SimulationInput `json:"inputs"`
}

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Engine            *calculation.ProjectionEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(engine *calculation.ProjectionEngine) *CompareEngine {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &CompareEngine{
		Engine:            engine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// TaxOptionScenarios returns the input under its own tax option followed by the same input under the other one.
func TaxOptionScenarios(name string, in domain.SimulationInput) (Scenario, Scenario) {
	if !in.TaxOption.Valid() {
		in.TaxOption = domain.TaxWholeCapital
	}
	other := in.Clone()
	if in.TaxOption == domain.TaxWholeCapital {
		other.TaxOption = domain.TaxInterestOnly
	} else {
		other.TaxOption = domain.TaxWholeCapital
	}

	if name == "" {
		name = "plan"
	}
	base := Scenario{Name: name + " (" + in.TaxOption.Label() + ")", Description: "tax on " + in.TaxOption.Label(), Input: in}
	alt := Scenario{Name: name + " (" + other.TaxOption.Label() + ")", Description: "tax on " + other.TaxOption.Label(), Input: other}
	return base, alt
}

// CompareTaxOptions projects the input under both tax options, using the input's own option as the base.
func (ce *CompareEngine) CompareTaxOptions(ctx context.Context, name string, in domain.SimulationInput) (*ComparisonSet, error) {
	base, alt := TaxOptionScenarios(name, in)
	return ce.Compare(ctx, base, []Scenario{alt})
}

// Compare projects the base and every alternative and measures each alternative against the base.
func (ce *CompareEngine) Compare(ctx context.Context, base Scenario, alternatives []Scenario) (*ComparisonSet, error) {
	baseResult, err := ce.run(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		altResult, err := ce.run(ctx, alt)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", alt.Name, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, s Scenario) (ComparisonResult, error) {
	result, err := ce.Engine.Project(ctx, s.Input)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(s, result), nil
}
