package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(tuistyles.ErrorStyle.Render(
			fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
		))
	}

	if m.loading {
		return m.renderApp(tuistyles.BorderStyle.Render("⠋ Calculating..."))
	}

	var content string
	switch m.currentScene {
	case SceneForm:
		content = m.formModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHistory:
		content = m.historyModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(0, m.height-4)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Riseplan - Savings Projection"),
		tuistyles.SubtitleStyle.Render(m.currentScene.String()),
	)
}

func (m Model) renderStatusBar() string {
	var shortcuts []string
	if m.currentScene == SceneForm {
		shortcuts = []string{
			formatShortcut("enter", "calculate"),
			formatShortcut("ctrl+o", "history"),
			formatShortcut("ctrl+c", "quit"),
		}
	} else {
		shortcuts = []string{
			formatShortcut("e", "plan"),
			formatShortcut("?", "help"),
			formatShortcut("q", "quit"),
		}
	}
	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		status := tuistyles.SubtitleStyle.Render(m.status)
		spacer := strings.Repeat(" ", max(1, m.width-lipgloss.Width(statusText)-lipgloss.Width(status)-4))
		statusText += spacer + status
	}

	return tuistyles.StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	helpText := `Riseplan projects monthly savings growth and the income it can pay out.

PLAN FORM:
  tab/shift+tab  Move between fields
  enter          Calculate
  ctrl+n         Add a deposit period
  ctrl+x         Remove the focused period
  ctrl+t         Toggle the tax option
  ctrl+o         Saved runs
  esc            Back to results

RESULTS:
  s              Save the run
  l              Saved runs
  e              Edit the plan

SAVED RUNS:
  ↑/↓            Select
  enter          Open
  d              Delete
  r              Refresh

  ?              Show this help
  esc            Go back
  q/ctrl+c       Quit`

	return tuistyles.BorderStyle.Render(helpText)
}
