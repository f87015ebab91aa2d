package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/output"
	"github.com/rgehrsitz/riseplan/internal/tui/components"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

// maxYearRows caps the year-end table
const maxYearRows = 10

// ResultsModel represents the results display scene
type ResultsModel struct {
	name   string
	input  domain.SimulationInput
	result *domain.SimulationResult
	saved  bool
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult updates the projection to display
func (m *ResultsModel) SetResult(name string, in domain.SimulationInput, result *domain.SimulationResult) {
	m.name = name
	m.input = in
	m.result = result
	m.saved = false
}

// MarkSaved flags the displayed projection as persisted
func (m *ResultsModel) MarkSaved() {
	m.saved = true
}

// HasResult reports whether a projection is loaded
func (m *ResultsModel) HasResult() bool {
	return m.result != nil
}

// Current returns the displayed projection
func (m *ResultsModel) Current() (string, domain.SimulationInput, *domain.SimulationResult) {
	return m.name, m.input, m.result
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// Results scene is read-only
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return renderNoResultsState()
	}

	sections := []string{
		m.renderHeader(),
		m.renderBanner(),
		"",
		components.MetricGrid(components.ResultCards(m.result, m.input.DesiredMonthlyIncome), 4),
	}

	if bar := components.GoalProgress(m.result); bar != nil {
		sections = append(sections, "", bar.Render())
	}

	chartWidth := 70
	if m.width > 0 && m.width-10 < chartWidth {
		chartWidth = max(30, m.width-10)
	}
	sections = append(sections,
		"",
		components.CapitalChart(m.result).WithSize(chartWidth, 10).Render(),
		"",
		renderYearSummary(m.result),
		"",
		renderHelp([][2]string{
			{"e", "edit plan"},
			{"s", "save run"},
			{"l", "history"},
			{"?", "help"},
			{"q", "quit"},
		}),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderNoResultsState() string {
	return `No results to display.

Fill in the plan and press enter to calculate.

Press e to edit the plan.`
}

func (m *ResultsModel) renderHeader() string {
	name := m.name
	if name == "" {
		name = "unnamed plan"
	}
	subtitle := fmt.Sprintf("Plan: %s • %d months • tax on %s", name, m.result.TotalMonths, m.input.TaxOption.Label())
	if m.saved {
		subtitle += " • saved"
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Projection Results"),
		tuistyles.SubtitleStyle.Render(subtitle),
	)
}

func (m *ResultsModel) renderBanner() string {
	text := output.Assessment(output.NewReport(m.name, m.input, m.result))
	if m.result.TargetMet(m.input.DesiredMonthlyIncome) {
		return tuistyles.SuccessBannerStyle.Render(text)
	}
	return tuistyles.ShortfallBannerStyle.Render(text)
}

// yearEndPoints picks the last month of every year, plus the final month when it ends mid-year.
func yearEndPoints(timeline []domain.TimelinePoint) []domain.TimelinePoint {
	var out []domain.TimelinePoint
	for _, p := range timeline {
		if p.Month%12 == 0 {
			out = append(out, p)
		}
	}
	if n := len(timeline); n > 0 && timeline[n-1].Month%12 != 0 {
		out = append(out, timeline[n-1])
	}
	return out
}

func renderYearSummary(result *domain.SimulationResult) string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Year-end Capital"))
	content.WriteString("\n")

	header := fmt.Sprintf("%-8s  %-20s  %-20s", "Year", "Before Tax", "After Tax")
	content.WriteString(tuistyles.TableHeaderStyle.Render(header))
	content.WriteString("\n")
	content.WriteString(strings.Repeat("─", 52))
	content.WriteString("\n")

	points := yearEndPoints(result.Timeline)
	shown := points
	if len(shown) > maxYearRows {
		shown = shown[:maxYearRows]
	}
	for _, p := range shown {
		label := fmt.Sprintf("%d", (p.Month+11)/12)
		if p.Month%12 != 0 {
			label += fmt.Sprintf(" (%dm)", p.Month%12)
		}
		row := fmt.Sprintf("%-8s  %-20s  %-20s", label,
			tuistyles.FormatCurrency(p.CapitalBeforeTax),
			tuistyles.FormatCurrency(p.CapitalAfterTax))
		content.WriteString(tuistyles.TableCellStyle.Render(row))
		content.WriteString("\n")
	}

	if len(points) > maxYearRows {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("... and %d more years", len(points)-maxYearRows)))
	}

	return tuistyles.BorderStyle.Render(strings.TrimRight(content.String(), "\n"))
}
