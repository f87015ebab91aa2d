package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/tui/tuimsg"
)

var errNoStore = errors.New("run history is not available")

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.formModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		m.historyModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Scene)

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.PlanLoadedMsg:
		m.formModel.SetPlan(*msg.Plan)
		m.status = "Loaded " + msg.Path
		return m, nil

	case tuimsg.CalculateRequestedMsg:
		m.loading = true
		m.status = "Calculating..."
		return m, calculateCmd(m.engine, msg.Plan)

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.SetResult(msg.Name, msg.Input, msg.Result)
		m.status = fmt.Sprintf("Projected %d months", msg.Result.TotalMonths)
		return m.navigate(SceneResults)

	case tuimsg.SaveRunRequestedMsg:
		if m.store == nil {
			m.err = errNoStore
			return m, nil
		}
		name, in, result := m.resultsModel.Current()
		if result == nil {
			return m, nil
		}
		return m, saveRunCmd(m.store, name, in, result)

	case tuimsg.RunSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.resultsModel.MarkSaved()
		m.status = "Saved run " + msg.Run.ID
		return m, nil

	case tuimsg.RunsLoadedMsg:
		m.historyModel.SetRuns(msg.Runs, msg.Err)
		return m, nil

	case tuimsg.LoadRunRequestedMsg:
		return m, loadRunCmd(m.store, msg.ID)

	case tuimsg.RunLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		run := msg.Run
		m.formModel.SetPlan(config.PlanFromSimulationInput(run.Name, run.Input))
		m.resultsModel.SetResult(run.Name, run.Input, &run.Result)
		m.resultsModel.MarkSaved()
		m.status = "Opened run " + run.ID
		return m.navigate(SceneResults)

	case tuimsg.DeleteRunRequestedMsg:
		return m, deleteRunCmd(m.store, msg.ID)

	case tuimsg.RunDeletedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.historyModel.RemoveRun(msg.ID)
		m.status = "Deleted run " + msg.ID
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	if scene == m.currentScene {
		return m, nil
	}
	if scene == SceneHistory && m.store == nil {
		m.err = errNoStore
		return m, nil
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
	if scene == SceneHistory {
		return m, loadRunsCmd(m.store)
	}
	return m, nil
}

func (m Model) back() (tea.Model, tea.Cmd) {
	target := m.previousScene
	if target == m.currentScene || target == SceneHelp {
		target = SceneForm
	}
	return m.navigate(target)
}

// handleKeyPress processes keyboard input. The form scene receives typed characters, so
// single-letter shortcuts apply only outside it.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key dismisses an error.
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	if m.currentScene == SceneForm {
		switch msg.String() {
		case "ctrl+o":
			return m.navigate(SceneHistory)
		case "esc":
			if m.resultsModel.HasResult() {
				return m.navigate(SceneResults)
			}
			return m, nil
		}
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		return m.navigate(SceneHelp)
	case "esc":
		return m.back()
	case "e", "f":
		return m.navigate(SceneForm)
	}

	switch m.currentScene {
	case SceneResults:
		switch msg.String() {
		case "s":
			return m, func() tea.Msg { return tuimsg.SaveRunRequestedMsg{} }
		case "l":
			return m.navigate(SceneHistory)
		}
	case SceneHistory:
		if msg.String() == "r" {
			return m, loadRunsCmd(m.store)
		}
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneForm:
		m.formModel, cmd = m.formModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	case SceneHistory:
		m.historyModel, cmd = m.historyModel.Update(msg)
	}
	return m, cmd
}
