package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to solve for
type OptimizationTarget string

const (
	OptimizeMonthlyDeposit OptimizationTarget = "monthly_deposit"
	OptimizeInitialCapital OptimizationTarget = "initial_capital"
)

// OptimizationGoal defines what outcome the solved parameter must achieve
type OptimizationGoal string

const (
	GoalReachWithinYears OptimizationGoal = "reach_goal"  // after-tax capital meets the rise threshold inside the horizon
	GoalMeetIncome       OptimizationGoal = "meet_income" // final monthly income after tax covers the desired income
)

// ParseTarget resolves a CLI or API spelling of a target.
func ParseTarget(s string) (OptimizationTarget, error) {
	switch OptimizationTarget(s) {
	case OptimizeMonthlyDeposit, "deposit", "":
		return OptimizeMonthlyDeposit, nil
	case OptimizeInitialCapital, "capital":
		return OptimizeInitialCapital, nil
	}
	return "", &SolverError{Operation: "parse_target", Message: fmt.Sprintf("unknown target %q", s)}
}

// ParseGoal resolves a CLI or API spelling of a goal.
func ParseGoal(s string) (OptimizationGoal, error) {
	switch OptimizationGoal(s) {
	case GoalReachWithinYears, "goal", "":
		return GoalReachWithinYears, nil
	case GoalMeetIncome, "income":
		return GoalMeetIncome, nil
	}
	return "", &SolverError{Operation: "parse_goal", Message: fmt.Sprintf("unknown goal %q", s)}
}

// Constraints bound the search
type Constraints struct {
	// Years is the projection horizon. The deposit target replaces the plan's periods with one
	// period of this length; the capital target truncates the plan's periods to it (0 keeps them all).
	Years int `json:"years"`

	MinValue *decimal.Decimal `json:"min_value,omitempty"`
	MaxValue *decimal.Decimal `json:"max_value,omitempty"`
}

// OptimizationRequest defines the parameters for one solver run
type OptimizationRequest struct {
	Input         domain.SimulationInput `json:"inputs"`
	Target        OptimizationTarget     `json:"target"`
	Goal          OptimizationGoal       `json:"goal"`
	Constraints   Constraints            `json:"constraints"`
	MaxIterations int                    `json:"max_iterations"`
	Tolerance     decimal.Decimal        `json:"tolerance"` // Convergence tolerance for bisection, in dollars
}

// OptimizationResult contains the results of a solver run
type OptimizationResult struct {
	Request         OptimizationRequest `json:"request"`
	Success         bool                `json:"success"`
	Iterations      int                 `json:"iterations"`
	ConvergenceInfo string              `json:"convergence_info"`

	// OptimalValue is the smallest value of the target, rounded up to cents, that meets the goal.
	OptimalValue decimal.Decimal         `json:"optimal_value"`
	SolvedInput  domain.SimulationInput  `json:"solved_inputs"`
	Result       *domain.SimulationResult `json:"-"`

	FinalCapital          decimal.Decimal       `json:"final_capital"`
	TotalDeposits         decimal.Decimal       `json:"total_deposits"`
	MonthlyIncomeAfterTax decimal.Decimal       `json:"monthly_income_after_tax"`
	GoalReachedAt         *domain.GoalReachedAt `json:"goal_reached_at"`
}

// MultiDimensionalResult holds one result per target for the same goal
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	LeastDeposited  *OptimizationResult  `json:"least_deposited"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance
	MaxIterations int             // Maximum iterations
	// SearchCeiling stops the upward bracket search when no upper bound is given.
	SearchCeiling decimal.Decimal
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 100,
		SearchCeiling: decimal.NewFromInt(1_000_000_000),
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate(target OptimizationTarget) error {
	if c.Years < 0 || c.Years > domain.MaxProjectionYears {
		return &SolverError{
			Operation: "validate_constraints",
			Message:   fmt.Sprintf("years must be between 0 and %d", domain.MaxProjectionYears),
		}
	}
	if target == OptimizeMonthlyDeposit && c.Years == 0 {
		return &SolverError{
			Operation: "validate_constraints",
			Message:   "years is required when solving for the monthly deposit",
		}
	}
	if c.MinValue != nil && c.MinValue.IsNegative() {
		return &SolverError{
			Operation: "validate_constraints",
			Message:   "min_value cannot be negative",
		}
	}
	if c.MinValue != nil && c.MaxValue != nil && c.MinValue.GreaterThan(*c.MaxValue) {
		return &SolverError{
			Operation: "validate_constraints",
			Message:   "min_value cannot be greater than max_value",
		}
	}
	return nil
}

// SolverError represents errors from the solver
type SolverError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *SolverError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

// Unwrap exposes the cause so errors.Is sees domain.ErrInvalidInput through the solver.
func (e *SolverError) Unwrap() error {
	return e.Cause
}
