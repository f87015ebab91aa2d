package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/storage"
	"github.com/rgehrsitz/riseplan/internal/tui/scenes"
	"github.com/rgehrsitz/riseplan/internal/tui/tuimsg"
)

// historyLimit caps the saved-run listing
const historyLimit = 50

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	planPath string
	engine   *calculation.ProjectionEngine
	// store is nil when run history is unavailable
	store storage.RunStore

	formModel    *scenes.FormModel
	resultsModel *scenes.ResultsModel
	historyModel *scenes.HistoryModel

	err     error
	status  string
	loading bool
}

// NewModel creates the application model. planPath may be empty to start from the default plan,
// and store may be nil to run without history.
func NewModel(planPath string, engine *calculation.ProjectionEngine, store storage.RunStore) Model {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return Model{
		currentScene: SceneForm,
		planPath:     planPath,
		engine:       engine,
		store:        store,
		formModel:    scenes.NewFormModel(),
		resultsModel: scenes.NewResultsModel(),
		historyModel: scenes.NewHistoryModel(),
		width:        80,
		height:       24,
	}
}

// Init loads the plan file when one was given
func (m Model) Init() tea.Cmd {
	if m.planPath == "" {
		return nil
	}
	return loadPlanCmd(m.planPath)
}

// loadPlanCmd returns a command that reads a plan file
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		plan, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.PlanLoadedMsg{Plan: plan, Path: path}
	}
}

// calculateCmd returns a command that projects a plan
func calculateCmd(engine *calculation.ProjectionEngine, plan config.PlanFile) tea.Cmd {
	return func() tea.Msg {
		in := plan.ToSimulationInput()
		result, err := engine.Project(context.Background(), in)
		return tuimsg.CalculationCompleteMsg{Name: plan.Name, Input: in, Result: result, Err: err}
	}
}

func saveRunCmd(store storage.RunStore, name string, in domain.SimulationInput, result *domain.SimulationResult) tea.Cmd {
	return func() tea.Msg {
		run, err := store.SaveRun(context.Background(), domain.SavedRun{Name: name, Input: in, Result: *result})
		return tuimsg.RunSavedMsg{Run: run, Err: err}
	}
}

func loadRunsCmd(store storage.RunStore) tea.Cmd {
	return func() tea.Msg {
		runs, err := store.ListRuns(context.Background(), historyLimit)
		return tuimsg.RunsLoadedMsg{Runs: runs, Err: err}
	}
}

func loadRunCmd(store storage.RunStore, id string) tea.Cmd {
	return func() tea.Msg {
		run, err := store.GetRun(context.Background(), id)
		return tuimsg.RunLoadedMsg{Run: run, Err: err}
	}
}

func deleteRunCmd(store storage.RunStore, id string) tea.Cmd {
	return func() tea.Msg {
		return tuimsg.RunDeletedMsg{ID: id, Err: store.DeleteRun(context.Background(), id)}
	}
}
