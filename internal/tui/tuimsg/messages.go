// Package tuimsg holds the messages scenes send to the root model.
package tuimsg

import (
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
)

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// PlanLoadedMsg signals a plan file has been read into the form
type PlanLoadedMsg struct {
	Plan *config.PlanFile
	Path string
}

// CalculateRequestedMsg asks the root model to project the form's plan
type CalculateRequestedMsg struct {
	Plan config.PlanFile
}

// CalculationCompleteMsg carries a finished projection
type CalculationCompleteMsg struct {
	Name   string
	Input  domain.SimulationInput
	Result *domain.SimulationResult
	Err    error
}

// SaveRunRequestedMsg asks for the current result to be persisted
type SaveRunRequestedMsg struct{}

// RunSavedMsg signals a save operation has finished
type RunSavedMsg struct {
	Run domain.SavedRun
	Err error
}

// RunsLoadedMsg carries the saved-run listing
type RunsLoadedMsg struct {
	Runs []domain.RunSummary
	Err  error
}

// LoadRunRequestedMsg asks for a saved run to be opened
type LoadRunRequestedMsg struct {
	ID string
}

// RunLoadedMsg carries a saved run read back from storage
type RunLoadedMsg struct {
	Run domain.SavedRun
	Err error
}

// DeleteRunRequestedMsg asks for a saved run to be removed
type DeleteRunRequestedMsg struct {
	ID string
}

// RunDeletedMsg signals a delete has finished
type RunDeletedMsg struct {
	ID  string
	Err error
}
