package calculation

import (
	"fmt"

	"github.com/rgehrsitz/riseplan/internal/domain"
)

// Scheduler resolves the deposit period active for each simulated month.
// It is a value: Advance returns the next scheduler instead of mutating the receiver.
type Scheduler struct {
	periods []domain.DepositPeriod
	index   int // current period
	elapsed int // months already consumed from periods[index]
}

// NewScheduler starts a schedule at the first month of the first period.
func NewScheduler(periods []domain.DepositPeriod) Scheduler {
	return Scheduler{periods: periods}
}

// Advance returns the period that covers the next month and the scheduler positioned after it.
// Periods are consumed strictly in order; periods with zero months are skipped.
func (s Scheduler) Advance() (domain.DepositPeriod, Scheduler, error) {
	for s.index < len(s.periods) && s.elapsed >= s.periods[s.index].Months() {
		s.index++
		s.elapsed = 0
	}
	if s.index >= len(s.periods) {
		return domain.DepositPeriod{}, s, fmt.Errorf("%w: all %d periods consumed", domain.ErrPeriodExhausted, len(s.periods))
	}

	period := s.periods[s.index]
	s.elapsed++
	return period, s, nil
}

// Index is the position of the current period in the configured list.
func (s Scheduler) Index() int {
	return s.index
}
