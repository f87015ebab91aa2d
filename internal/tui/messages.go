package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneForm Scene = iota
	SceneResults
	SceneHistory
	SceneHelp
)

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneForm:
		return "Plan"
	case SceneResults:
		return "Results"
	case SceneHistory:
		return "History"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
