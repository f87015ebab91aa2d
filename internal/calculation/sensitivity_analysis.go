package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"golang.org/x/sync/errgroup"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	engine      *ProjectionEngine
	concurrency int
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *ProjectionEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewProjectionEngine()
	}
	return &SensitivityAnalyzer{
		engine:      engine,
		concurrency: runtime.GOMAXPROCS(0),
	}
}

// AnalyzeSingleParameter sweeps one parameter over its range and compares each run with the base input.
// Runs are independent and execute concurrently; results keep the sweep order.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	base domain.SimulationInput,
	parameter domain.SensitivityParameter,
) (*domain.ParameterSensitivityAnalysis, error) {
	if parameter.Steps < 1 || parameter.Steps > domain.MaxSensitivitySteps {
		return nil, &domain.ValidationError{
			Field:  "parameter.steps",
			Reason: fmt.Sprintf("must be between 1 and %d", domain.MaxSensitivitySteps),
		}
	}
	if parameter.MaxValue.LessThan(parameter.MinValue) {
		return nil, &domain.ValidationError{Field: "parameter.max_value", Reason: "is below min value"}
	}

	baseResult, err := sa.engine.Project(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to run base projection: %w", err)
	}
	baseMetrics := domain.MetricsFromResult(baseResult, base.DesiredMonthlyIncome)

	values := parameter.Values()
	results := make([]domain.SensitivityResult, len(values))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sa.concurrency)
	for i, value := range values {
		g.Go(func() error {
			modified, err := parameter.Apply(base, value)
			if err != nil {
				return err
			}
			res, err := sa.engine.Project(gctx, modified)
			if err != nil {
				return fmt.Errorf("failed to run projection for %s=%s: %w", parameter.Name, value, err)
			}
			metrics := domain.MetricsFromResult(res, modified.DesiredMonthlyIncome)
			metrics.CompareTo(baseMetrics)
			results[i] = domain.SensitivityResult{ParameterValue: value, KeyMetrics: metrics}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.ParameterSensitivityAnalysis{
		Parameter:   parameter,
		BaseMetrics: baseMetrics,
		Results:     results,
		Summary:     summarize(parameter, results),
	}, nil
}

func summarize(parameter domain.SensitivityParameter, results []domain.SensitivityResult) domain.SensitivitySummary {
	var summary domain.SensitivitySummary
	for _, r := range results {
		m := r.KeyMetrics
		if m.IncomeChangePct.Abs().GreaterThan(summary.MaxIncomeSwingPct.Abs()) {
			summary.MaxIncomeSwingPct = m.IncomeChangePct
		}
		if m.TargetMet {
			summary.TargetMetCount++
		}
		if g := m.GoalReachedAt; g != nil {
			if summary.EarliestGoal == nil || g.TotalMonths() < summary.EarliestGoal.TotalMonths() {
				summary.EarliestGoal = g
			}
			if summary.LatestGoal == nil || g.TotalMonths() > summary.LatestGoal.TotalMonths() {
				summary.LatestGoal = g
			}
		}
	}
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name, len(results))
	return summary
}
