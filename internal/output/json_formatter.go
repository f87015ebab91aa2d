package output

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/domain"
)

// JSONFormatter emits the inputs and the full result, including the timeline.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonReport struct {
	Name        string                   `json:"name,omitempty"`
	GeneratedAt time.Time                `json:"timestamp"`
	Inputs      domain.SimulationInput   `json:"inputs"`
	Results     *domain.SimulationResult `json:"results"`
	TargetMet   bool                     `json:"targetMet"`
	Assessment  string                   `json:"assessment"`
}

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	return json.MarshalIndent(jsonReport{
		Name:        r.Name,
		GeneratedAt: r.GeneratedAt,
		Inputs:      r.Input,
		Results:     r.Result,
		TargetMet:   r.TargetMet(),
		Assessment:  Assessment(r),
	}, "", "  ")
}
