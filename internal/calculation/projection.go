package calculation

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

// CapitalScale is the number of decimal places capital keeps after each month's growth.
const CapitalScale = 10

// AccumulatorState is the value threaded through every simulated month.
type AccumulatorState struct {
	Capital            decimal.Decimal
	TotalDepositsSoFar decimal.Decimal
	Goal               *domain.GoalReachedAt
	Timeline           []domain.TimelinePoint
}

// Accumulate folds months 1..months over the deposit schedule. Each month the deposit lands first,
// then the month's growth is applied, then the goal is checked against provisional after-tax capital.
func Accumulate(initialCapital decimal.Decimal, periods []domain.DepositPeriod, months int, monthlyRate decimal.Decimal, evaluator GoalEvaluator) (AccumulatorState, error) {
	state := AccumulatorState{
		Capital:            initialCapital,
		TotalDepositsSoFar: initialCapital,
		Timeline:           make([]domain.TimelinePoint, 0, months),
	}
	growth := decimal.NewFromInt(1).Add(monthlyRate)
	schedule := NewScheduler(periods)

	for month := 1; month <= months; month++ {
		var err error
		state, schedule, err = step(state, schedule, month, growth, evaluator)
		if err != nil {
			return AccumulatorState{}, fmt.Errorf("month %d: %w", month, err)
		}
	}
	return state, nil
}

// step advances the state by one month.
func step(state AccumulatorState, schedule Scheduler, month int, growth decimal.Decimal, evaluator GoalEvaluator) (AccumulatorState, Scheduler, error) {
	period, next, err := schedule.Advance()
	if err != nil {
		return state, schedule, err
	}

	capital := state.Capital.Add(period.MonthlyDeposit).Mul(growth).Round(CapitalScale)
	deposits := state.TotalDepositsSoFar.Add(period.MonthlyDeposit)
	afterTax := evaluator.CapitalAfterTax(capital, deposits)

	goal := state.Goal
	if goal == nil && evaluator.Meets(afterTax) {
		reached := domain.GoalFromMonth(month)
		goal = &reached
	}

	return AccumulatorState{
		Capital:            capital,
		TotalDepositsSoFar: deposits,
		Goal:               goal,
		Timeline: append(state.Timeline, domain.TimelinePoint{
			Month:            month,
			CapitalBeforeTax: capital,
			CapitalAfterTax:  afterTax,
		}),
	}, next, nil
}
