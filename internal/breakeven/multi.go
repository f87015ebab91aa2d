package breakeven

import (
	"context"
	"fmt"
)

// OptimizeMultiDimensional solves every target for the same goal and compares what each one costs.
// A zero Years constraint falls back to the plan's own horizon for the deposit target.
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	req OptimizationRequest,
) (*MultiDimensionalResult, error) {
	targets := []OptimizationTarget{
		OptimizeMonthlyDeposit,
		OptimizeInitialCapital,
	}

	var results []OptimizationResult
	var lastErr error

	for _, target := range targets {
		r := req
		r.Target = target
		r.Constraints.MinValue, r.Constraints.MaxValue = nil, nil
		if target == OptimizeMonthlyDeposit && r.Constraints.Years == 0 {
			r.Constraints.Years = req.Input.TotalMonths() / 12
		}

		result, err := s.Optimize(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if result.Success {
			results = append(results, *result)
		}
	}

	if len(results) == 0 {
		return nil, &SolverError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
			Cause:     lastErr,
		}
	}

	mdResult := &MultiDimensionalResult{Results: results}
	for i := range results {
		if mdResult.LeastDeposited == nil ||
			results[i].TotalDeposits.LessThan(mdResult.LeastDeposited.TotalDeposits) {
			mdResult.LeastDeposited = &results[i]
		}
	}
	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	for _, r := range result.Results {
		switch r.Request.Target {
		case OptimizeMonthlyDeposit:
			recommendations = append(recommendations,
				fmt.Sprintf("Deposit $%s per month for %d years", r.OptimalValue.StringFixed(2), r.Request.Constraints.Years))
		case OptimizeInitialCapital:
			recommendations = append(recommendations,
				fmt.Sprintf("Start with $%s and keep the planned deposits", r.OptimalValue.StringFixed(2)))
		}
	}

	if result.LeastDeposited != nil && len(result.Results) > 1 {
		recommendations = append(recommendations,
			fmt.Sprintf("Solving for %s needs the least money in total ($%s)",
				result.LeastDeposited.Request.Target, result.LeastDeposited.TotalDeposits.StringFixed(2)))
	}

	return recommendations
}
