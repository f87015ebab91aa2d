package scenes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/components"
	"github.com/rgehrsitz/riseplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyOpen   = key.NewBinding(key.WithKeys("enter"))
	keyDelete = key.NewBinding(key.WithKeys("d", "delete"))
)

// HistoryModel lists saved runs
type HistoryModel struct {
	runs     []domain.RunSummary
	selected int
	err      error
	width    int
	height   int
}

// NewHistoryModel creates an empty history scene
func NewHistoryModel() *HistoryModel {
	return &HistoryModel{}
}

// SetRuns replaces the listing and keeps the selection in range
func (m *HistoryModel) SetRuns(runs []domain.RunSummary, err error) {
	m.runs = runs
	m.err = err
	if m.selected >= len(m.runs) {
		m.selected = len(m.runs) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// RemoveRun drops a deleted run from the listing
func (m *HistoryModel) RemoveRun(id string) {
	for i, r := range m.runs {
		if r.ID == id {
			m.runs = append(m.runs[:i], m.runs[i+1:]...)
			break
		}
	}
	m.SetRuns(m.runs, m.err)
}

// Runs returns the current listing
func (m *HistoryModel) Runs() []domain.RunSummary {
	return m.runs
}

// Selected returns the highlighted run, if any
func (m *HistoryModel) Selected() (domain.RunSummary, bool) {
	if len(m.runs) == 0 {
		return domain.RunSummary{}, false
	}
	return m.runs[m.selected], true
}

// SetSize updates the scene dimensions
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the history scene
func (m *HistoryModel) Update(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyUp):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(keyMsg, keyDown):
		if m.selected < len(m.runs)-1 {
			m.selected++
		}
	case key.Matches(keyMsg, keyOpen):
		if run, ok := m.Selected(); ok {
			return m, func() tea.Msg { return tuimsg.LoadRunRequestedMsg{ID: run.ID} }
		}
	case key.Matches(keyMsg, keyDelete):
		if run, ok := m.Selected(); ok {
			return m, func() tea.Msg { return tuimsg.DeleteRunRequestedMsg{ID: run.ID} }
		}
	}
	return m, nil
}

// View renders the history scene
func (m *HistoryModel) View() string {
	sections := []string{tuistyles.TitleStyle.Render("Saved Runs")}
	if m.err != nil {
		sections = append(sections, tuistyles.ErrorStyle.Render(m.err.Error()))
	} else {
		sections = append(sections, components.RunList(m.runs, m.selected))
	}
	sections = append(sections, "", renderHelp([][2]string{
		{"↑↓", "select"},
		{"enter", "open"},
		{"d", "delete"},
		{"r", "refresh"},
		{"f", "plan"},
		{"esc", "back"},
	}))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
