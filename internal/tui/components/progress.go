package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ProgressBar shows how far a value has come toward a target
type ProgressBar struct {
	Current decimal.Decimal
	Target  decimal.Decimal
	Width   int
	Label   string
}

// NewProgressBar creates a new progress bar
func NewProgressBar(current, target decimal.Decimal) *ProgressBar {
	return &ProgressBar{Current: current, Target: target, Width: 40}
}

// GoalProgress compares the final after-tax capital with the rise threshold.
// It returns nil when the threshold is undefined.
func GoalProgress(result *domain.SimulationResult) *ProgressBar {
	if result.RiseThreshold == nil {
		return nil
	}
	return NewProgressBar(result.CapitalAfterTax, *result.RiseThreshold).WithLabel("Progress toward rise threshold")
}

// WithLabel sets the progress label
func (p *ProgressBar) WithLabel(label string) *ProgressBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Percentage returns the completion percentage, capped at 100.
func (p *ProgressBar) Percentage() float64 {
	if !p.Target.IsPositive() {
		return 100
	}
	pct := p.Current.Div(p.Target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// IsComplete reports whether the target has been reached
func (p *ProgressBar) IsComplete() bool {
	return p.Current.GreaterThanOrEqual(p.Target)
}

// Render returns the styled progress bar
func (p *ProgressBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(p.Label))
		content.WriteString("\n")
	}

	percentage := p.Percentage()
	filled := int(float64(p.Width) * percentage / 100)
	if filled > p.Width {
		filled = p.Width
	}

	barColor := tuistyles.ColorAccent
	if p.IsComplete() {
		barColor = tuistyles.ColorSuccess
	}

	content.WriteString("[")
	content.WriteString(lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)))
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorBorder).Render(strings.Repeat("░", p.Width-filled)))
	content.WriteString("] ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(fmt.Sprintf("%.1f%%", percentage)))
	content.WriteString(" ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(
		fmt.Sprintf("%s / %s", tuistyles.FormatCurrency(p.Current), tuistyles.FormatCurrency(p.Target))))

	return content.String()
}
