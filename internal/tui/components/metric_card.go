package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Description string
	Width       int
}

// Trend represents a metric's change direction and amount
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{Label: label, Value: value, Width: 30}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{IsPositive: isPositive, Change: change}
	return m
}

// WithDescription adds a subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" + tuistyles.MetricValueStyle.Render(m.Value)
	if m.Trend != nil {
		content += "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive).
			Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	}
	if m.Description != "" {
		content += "\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// MetricGrid renders cards in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ResultCards builds the summary cards for a projection. The income card trends against the desired income.
func ResultCards(result *domain.SimulationResult, desiredMonthlyIncome decimal.Decimal) []*MetricCard {
	income := NewMetricCard("Monthly income after tax", tuistyles.FormatCurrency(result.MonthlyIncomeAfterTax))
	gap := result.MonthlyIncomeAfterTax.Sub(desiredMonthlyIncome)
	income.WithTrend(!gap.IsNegative(), tuistyles.FormatCurrency(gap.Abs())+" vs target")

	goal := "not reached"
	if g := result.GoalReachedAt; g != nil {
		goal = fmt.Sprintf("%dy %dm", g.Years, g.Months)
	}
	threshold := "undefined"
	if result.RiseThreshold != nil {
		threshold = tuistyles.FormatCurrency(*result.RiseThreshold)
	}

	return []*MetricCard{
		NewMetricCard("Capital before tax", tuistyles.FormatCurrency(result.FinalCapital)),
		NewMetricCard("Total deposits", tuistyles.FormatCurrency(result.TotalDeposits)),
		NewMetricCard("Interest earned", tuistyles.FormatCurrency(result.InterestEarned)),
		NewMetricCard("Tax amount", tuistyles.FormatCurrency(result.TaxAmount)),
		NewMetricCard("Capital after tax", tuistyles.FormatCurrency(result.CapitalAfterTax)),
		income,
		NewMetricCard("Real annual rate", result.RealInterestRate.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%"),
		NewMetricCard("Goal reached", goal).WithDescription("threshold " + threshold),
	}
}
