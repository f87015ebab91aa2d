package calculation

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
)

// ProjectionEngine runs projections and reports diagnostics through a Logger.
// It holds no per-run state and is safe for concurrent use.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates an engine with a no-op logger
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// Project is the single entry point of the engine: it validates the input, normalizes the rates,
// folds every month of the deposit schedule and computes the final tax aggregate.
// It returns either a complete result or an error, never a partial timeline.
func Project(in domain.SimulationInput) (*domain.SimulationResult, error) {
	return project(in, NopLogger{})
}

// Project runs Project after checking ctx. The projection itself is bounded and never blocks.
func (pe *ProjectionEngine) Project(ctx context.Context, in domain.SimulationInput) (*domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := pe.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return project(in, logger)
}

func project(in domain.SimulationInput, logger Logger) (*domain.SimulationResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	rates, err := NormalizeRates(in.NominalInterest, in.InflationRate)
	if err != nil {
		return nil, err
	}
	logger.Debugf("real annual rate %s, monthly rate %s", rates.RealAnnual.StringFixed(6), rates.Monthly.StringFixed(8))

	evaluator := NewGoalEvaluator(in)
	if evaluator.Threshold() == nil {
		logger.Debugf("rise threshold undefined (withdrawal rate %s, tax rate %s); goal will not be reached", in.WithdrawalRate, in.TaxRate)
	}

	months := in.TotalMonths()
	state, err := Accumulate(in.InitialCapital, in.Periods, months, rates.Monthly, evaluator)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	agg := FinalAggregate(in, state.Capital)
	if state.Goal != nil {
		logger.Debugf("goal reached after %d years %d months", state.Goal.Years, state.Goal.Months)
	}

	return &domain.SimulationResult{
		RealInterestRate:      rates.RealAnnual,
		FinalCapital:          state.Capital,
		TotalDeposits:         agg.TotalDeposits,
		InterestEarned:        agg.InterestEarned,
		TaxAmount:             agg.TaxAmount,
		CapitalAfterTax:       agg.CapitalAfterTax,
		MonthlyIncomeAfterTax: agg.MonthlyIncomeAfterTax,
		GoalReachedAt:         state.Goal,
		Timeline:              state.Timeline,
		Periods:               append([]domain.DepositPeriod(nil), in.Periods...),
		TotalMonths:           months,
		RiseThreshold:         evaluator.Threshold(),
	}, nil
}
