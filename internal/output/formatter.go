package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/riseplan/internal/domain"
)

// Report bundles everything a formatter renders for one projection.
type Report struct {
	Name        string
	Input       domain.SimulationInput
	Result      *domain.SimulationResult
	GeneratedAt time.Time
}

// NewReport creates a report stamped with the current time.
func NewReport(name string, in domain.SimulationInput, result *domain.SimulationResult) *Report {
	return &Report{Name: name, Input: in, Result: result, GeneratedAt: time.Now().UTC()}
}

// ReportFromRun rebuilds a report from a saved run.
func ReportFromRun(run *domain.SavedRun) *Report {
	result := run.Result
	return &Report{Name: run.Name, Input: run.Input, Result: &result, GeneratedAt: run.CreatedAt}
}

// TargetMet reports whether the final monthly income covers the desired income.
func (r *Report) TargetMet() bool {
	return r.Result.TargetMet(r.Input.DesiredMonthlyIncome)
}

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations are pure: the same report always yields the same bytes.
type Formatter interface {
	Format(report *Report) ([]byte, error)
	// Name returns a short identifier used on the command line.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// Extension returns the file extension a formatter's output should be saved with.
func Extension(f Formatter) string {
	switch f.Name() {
	case "csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	default:
		return "txt"
	}
}

// WriteFormatted runs a formatter and writes the output to a timestamped file in dir.
func WriteFormatted(f Formatter, report *Report, dir string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("riseplan_report_%s.%s", report.GeneratedAt.Format("20060102_150405"), Extension(f))
	if dir != "" {
		filename = strings.TrimRight(dir, "/") + "/" + filename
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return filename, nil
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ConsoleVerboseFormatter{},
	CSVFormatter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter, resolving aliases. It returns nil if none matches.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":        "console",
	"table":       "console",
	"verbose":     "console-verbose",
	"detailed":    "console-verbose",
	"html-report": "html",
	"json-pretty": "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}
