package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds the smallest deposit or starting capital that meets a goal
type Solver struct {
	Engine  *calculation.ProjectionEngine
	Options SolverOptions
}

// NewSolver creates a new solver
func NewSolver(engine *calculation.ProjectionEngine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.ProjectionEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Target == "" {
		req.Target = OptimizeMonthlyDeposit
	}
	if req.Goal == "" {
		req.Goal = GoalReachWithinYears
	}
	if req.MaxIterations <= 0 || req.MaxIterations > s.Options.MaxIterations {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Tolerance.IsNegative() {
		return nil, &SolverError{
			Operation: "optimize",
			Message:   "tolerance must be positive",
		}
	}

	if err := req.Constraints.Validate(req.Target); err != nil {
		return nil, err
	}

	var apply func(decimal.Decimal) domain.SimulationInput
	switch req.Target {
	case OptimizeMonthlyDeposit:
		apply = depositApplier(req.Input, req.Constraints.Years)
	case OptimizeInitialCapital:
		apply = capitalApplier(req.Input, req.Constraints.Years)
	default:
		return nil, &SolverError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}

	var meets func(*domain.SimulationResult) bool
	switch req.Goal {
	case GoalReachWithinYears:
		meets = func(r *domain.SimulationResult) bool { return r.GoalReached() }
	case GoalMeetIncome:
		desired := req.Input.DesiredMonthlyIncome
		meets = func(r *domain.SimulationResult) bool { return r.TargetMet(desired) }
	default:
		return nil, &SolverError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization goal: %s", req.Goal),
		}
	}

	return s.bisect(ctx, req, apply, meets)
}

// depositApplier replaces the deposit schedule with a single uniform period.
func depositApplier(in domain.SimulationInput, years int) func(decimal.Decimal) domain.SimulationInput {
	return func(v decimal.Decimal) domain.SimulationInput {
		out := in
		out.Periods = []domain.DepositPeriod{{Years: years, MonthlyDeposit: v}}
		return out
	}
}

// capitalApplier keeps the deposit schedule, cut to years when years > 0, and varies the starting capital.
func capitalApplier(in domain.SimulationInput, years int) func(decimal.Decimal) domain.SimulationInput {
	periods := truncatePeriods(in.Periods, years)
	return func(v decimal.Decimal) domain.SimulationInput {
		out := in
		out.InitialCapital = v
		out.Periods = append([]domain.DepositPeriod(nil), periods...)
		return out
	}
}

func truncatePeriods(periods []domain.DepositPeriod, years int) []domain.DepositPeriod {
	if years <= 0 {
		return periods
	}
	var out []domain.DepositPeriod
	remaining := years
	for _, p := range periods {
		if remaining == 0 {
			break
		}
		if p.Years > remaining {
			p.Years = remaining
		}
		out = append(out, p)
		remaining -= p.Years
	}
	return out
}

type evaluation struct {
	value  decimal.Decimal
	input  domain.SimulationInput
	result *domain.SimulationResult
	meets  bool
}

// bisect brackets the goal between a failing lower and a passing upper value, then halves the
// bracket until it is narrower than the tolerance. The goal is monotone in both targets because
// every month's capital grows with the deposit and the starting capital.
func (s *Solver) bisect(
	ctx context.Context,
	req OptimizationRequest,
	apply func(decimal.Decimal) domain.SimulationInput,
	meets func(*domain.SimulationResult) bool,
) (*OptimizationResult, error) {
	op := "optimize_" + string(req.Target)
	iterations := 0

	eval := func(v decimal.Decimal) (evaluation, error) {
		iterations++
		if err := ctx.Err(); err != nil {
			return evaluation{}, err
		}
		in := apply(v)
		result, err := s.Engine.Project(ctx, in)
		if err != nil {
			return evaluation{}, &SolverError{Operation: op, Message: "failed to calculate projection", Cause: err}
		}
		return evaluation{value: v, input: in, result: result, meets: meets(result)}, nil
	}

	lo := decimal.Zero
	if req.Constraints.MinValue != nil {
		lo = *req.Constraints.MinValue
	}
	low, err := eval(lo)
	if err != nil {
		return nil, err
	}
	if req.Goal == GoalReachWithinYears && low.result.RiseThreshold == nil {
		return nil, &SolverError{
			Operation: op,
			Message:   "rise threshold is undefined (withdrawal rate is 0 or tax rate is 100%), the goal can never be reached",
		}
	}
	if low.meets {
		return s.newResult(req, low, iterations, "Goal already met at the lower bound"), nil
	}

	high, err := s.bracket(req, lo, eval, op)
	if err != nil {
		return nil, err
	}

	for high.value.Sub(low.value).GreaterThan(req.Tolerance) {
		if iterations >= req.MaxIterations {
			res := s.newResult(req, high, iterations, fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations))
			res.Success = false
			return res, nil
		}
		mid, err := eval(low.value.Add(high.value).Div(decimal.NewFromInt(2)))
		if err != nil {
			return nil, err
		}
		if mid.meets {
			high = mid
		} else {
			low = mid
		}
	}

	// Report a value in whole cents; rounding up keeps the goal met.
	if rounded := high.value.RoundCeil(2); !rounded.Equal(high.value) {
		if high, err = eval(rounded); err != nil {
			return nil, err
		}
	}

	return s.newResult(req, high, iterations, fmt.Sprintf("Bisection converged within $%s", req.Tolerance.StringFixed(2))), nil
}

// bracket finds a value that meets the goal: the configured maximum, or doubling upward from the lower bound.
func (s *Solver) bracket(
	req OptimizationRequest,
	lo decimal.Decimal,
	eval func(decimal.Decimal) (evaluation, error),
	op string,
) (evaluation, error) {
	if req.Constraints.MaxValue != nil {
		high, err := eval(*req.Constraints.MaxValue)
		if err != nil {
			return evaluation{}, err
		}
		if !high.meets {
			return evaluation{}, &SolverError{
				Operation: op,
				Message:   fmt.Sprintf("goal not met even at the upper bound %s", req.Constraints.MaxValue.StringFixed(2)),
			}
		}
		return high, nil
	}

	step := decimal.NewFromInt(100)
	for candidate := lo.Add(step); candidate.LessThanOrEqual(s.Options.SearchCeiling); {
		high, err := eval(candidate)
		if err != nil {
			return evaluation{}, err
		}
		if high.meets {
			return high, nil
		}
		step = step.Mul(decimal.NewFromInt(2))
		candidate = lo.Add(step)
	}
	return evaluation{}, &SolverError{
		Operation: op,
		Message:   fmt.Sprintf("goal not met below %s", s.Options.SearchCeiling.StringFixed(0)),
	}
}

func (s *Solver) newResult(req OptimizationRequest, e evaluation, iterations int, info string) *OptimizationResult {
	return &OptimizationResult{
		Request:               req,
		Success:               true,
		Iterations:            iterations,
		ConvergenceInfo:       info,
		OptimalValue:          e.value,
		SolvedInput:           e.input,
		Result:                e.result,
		FinalCapital:          e.result.FinalCapital,
		TotalDeposits:         e.result.TotalDeposits,
		MonthlyIncomeAfterTax: e.result.MonthlyIncomeAfterTax,
		GoalReachedAt:         e.result.GoalReachedAt,
	}
}
