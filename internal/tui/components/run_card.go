package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

// RunCard displays one saved run in the history list
type RunCard struct {
	Summary    domain.RunSummary
	IsSelected bool
}

// NewRunCard creates a card for a saved run
func NewRunCard(summary domain.RunSummary) *RunCard {
	return &RunCard{Summary: summary}
}

// SetSelected marks the card as selected
func (r *RunCard) SetSelected(selected bool) *RunCard {
	r.IsSelected = selected
	return r
}

// RenderCompact returns a single line: name, timestamp, income and goal
func (r *RunCard) RenderCompact() string {
	s := r.Summary
	name := s.Name
	if name == "" {
		name = s.ID
	}
	goal := "goal not reached"
	if s.GoalReachedAt != nil {
		goal = fmt.Sprintf("goal %dy %dm", s.GoalReachedAt.Years, s.GoalReachedAt.Months)
	}

	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(name),
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(s.CreatedAt.Local().Format("2006-01-02 15:04")),
		tuistyles.FormatCurrency(s.MonthlyIncomeAfterTax) + "/mo",
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(goal),
	}
	return strings.Join(parts, "  ")
}

// RunList renders saved runs as a selectable list
func RunList(summaries []domain.RunSummary, selectedIndex int) string {
	if len(summaries) == 0 {
		return tuistyles.InfoStyle.Render("No saved runs")
	}

	rendered := make([]string, len(summaries))
	for i, s := range summaries {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + NewRunCard(s).SetSelected(i == selectedIndex).RenderCompact())
	}
	return strings.Join(rendered, "\n")
}
