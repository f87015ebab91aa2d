package scenes

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuimsg"
)

func keyPress(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFormModel_DefaultPlanRoundTrips(t *testing.T) {
	m := NewFormModel()

	plan, err := m.Plan()
	require.NoError(t, err)

	want := config.DefaultPlan()
	assert.True(t, plan.NominalInterestPercent.Equal(want.NominalInterestPercent))
	assert.True(t, plan.TaxRatePercent.Equal(want.TaxRatePercent))
	assert.True(t, plan.InitialCapital.Equal(want.InitialCapital))
	assert.Equal(t, want.TaxOption, plan.TaxOption)
	require.Len(t, plan.Periods, 1)
	assert.Equal(t, want.Periods[0].Years, plan.Periods[0].Years)
	assert.True(t, plan.Periods[0].MonthlyDeposit.Equal(want.Periods[0].MonthlyDeposit))
}

func TestFormModel_SubmitEmitsCalculateRequest(t *testing.T) {
	m := NewFormModel()

	m, cmd := m.Update(keyPress(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.NoError(t, m.Err())

	msg, ok := cmd().(tuimsg.CalculateRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, domain.TaxWholeCapital, msg.Plan.TaxOption)
}

func TestFormModel_InvalidNumber(t *testing.T) {
	m := NewFormModel()
	m.scalars[fieldTaxRate].SetValue("fifteen")

	_, err := m.Plan()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Tax rate")

	m, cmd := m.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Error(t, m.Err())
	assert.Contains(t, m.View(), "is not a number")
}

func TestFormModel_OutOfRangeRejected(t *testing.T) {
	m := NewFormModel()
	m.scalars[fieldTaxRate].SetValue("150")

	_, err := m.Plan()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormModel_TogglesTaxOption(t *testing.T) {
	m := NewFormModel()

	m, _ = m.Update(keyPress(tea.KeyCtrlT))
	assert.Equal(t, domain.TaxInterestOnly, m.TaxOption())

	for i := 0; i < scalarFieldCount; i++ {
		m, _ = m.Update(keyPress(tea.KeyTab))
	}
	m, _ = m.Update(keyPress(tea.KeySpace))
	assert.Equal(t, domain.TaxWholeCapital, m.TaxOption())
}

func TestFormModel_AddAndRemovePeriods(t *testing.T) {
	m := NewFormModel()
	require.Equal(t, 1, m.PeriodCount())

	m, _ = m.Update(keyPress(tea.KeyCtrlN))
	assert.Equal(t, 2, m.PeriodCount())

	plan, err := m.Plan()
	require.NoError(t, err)
	assert.Equal(t, newPeriodYears, plan.Periods[1].Years)
	assert.True(t, plan.Periods[1].MonthlyDeposit.Equal(decimal.NewFromInt(newPeriodDeposit)))

	// Focus sits on the new period, so removing drops it.
	m, _ = m.Update(keyPress(tea.KeyCtrlX))
	assert.Equal(t, 1, m.PeriodCount())

	// Outside the periods the key does nothing.
	m.focus = fieldName
	m, _ = m.Update(keyPress(tea.KeyCtrlX))
	assert.Equal(t, 1, m.PeriodCount())
}

func TestFormModel_FocusWraps(t *testing.T) {
	m := NewFormModel()

	m, _ = m.Update(keyPress(tea.KeyShiftTab))
	assert.Equal(t, m.focusCount()-1, m.focus)

	m, _ = m.Update(keyPress(tea.KeyTab))
	assert.Equal(t, 0, m.focus)
}

func TestFormModel_View(t *testing.T) {
	m := NewFormModel()
	out := m.View()

	assert.Contains(t, out, "Plan inputs")
	assert.Contains(t, out, "Desired monthly income AFTER TAX")
	assert.Contains(t, out, "Entire capital")
	assert.Contains(t, out, "Period 1")
}

func projectDefault(t *testing.T) (domain.SimulationInput, *domain.SimulationResult) {
	t.Helper()
	in := config.DefaultPlan().ToSimulationInput()
	result, err := calculation.Project(in)
	require.NoError(t, err)
	return in, result
}

func TestResultsModel_View(t *testing.T) {
	m := NewResultsModel()
	assert.False(t, m.HasResult())
	assert.Contains(t, m.View(), "No results to display")

	in, result := projectDefault(t)
	m.SetResult("retirement", in, result)
	require.True(t, m.HasResult())

	out := m.View()
	assert.Contains(t, out, "Projection Results")
	assert.Contains(t, out, "retirement")
	assert.Contains(t, out, "Monthly income after tax")
	assert.Contains(t, out, "Year-end Capital")
	assert.NotContains(t, out, "saved")

	m.MarkSaved()
	assert.Contains(t, m.View(), "saved")
}

func TestYearEndPoints(t *testing.T) {
	timeline := make([]domain.TimelinePoint, 30)
	for i := range timeline {
		timeline[i] = domain.TimelinePoint{Month: i + 1}
	}

	points := yearEndPoints(timeline)
	require.Len(t, points, 3)
	assert.Equal(t, 12, points[0].Month)
	assert.Equal(t, 24, points[1].Month)
	assert.Equal(t, 30, points[2].Month)

	assert.Empty(t, yearEndPoints(nil))
}

func TestHistoryModel_SelectionAndCommands(t *testing.T) {
	m := NewHistoryModel()
	m.SetRuns([]domain.RunSummary{
		{ID: "a", Name: "first", CreatedAt: time.Now()},
		{ID: "b", Name: "second", CreatedAt: time.Now()},
	}, nil)

	m, _ = m.Update(keyPress(tea.KeyDown))
	run, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", run.ID)

	// Already at the bottom.
	m, _ = m.Update(keyPress(tea.KeyDown))
	run, _ = m.Selected()
	assert.Equal(t, "b", run.ID)

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.LoadRunRequestedMsg{ID: "b"}, cmd())

	_, cmd = m.Update(runes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.DeleteRunRequestedMsg{ID: "b"}, cmd())

	m.RemoveRun("b")
	require.Len(t, m.Runs(), 1)
	run, _ = m.Selected()
	assert.Equal(t, "a", run.ID)
}

func TestHistoryModel_EmptyAndError(t *testing.T) {
	m := NewHistoryModel()
	_, ok := m.Selected()
	assert.False(t, ok)

	_, cmd := m.Update(keyPress(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No saved runs")

	m.SetRuns(nil, errors.New("database is locked"))
	assert.Contains(t, m.View(), "database is locked")
}
