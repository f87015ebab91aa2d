package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestReport(t *testing.T, desired int64) *Report {
	t.Helper()
	in := domain.SimulationInput{
		NominalInterest:      decimal.RequireFromString("0.07"),
		InflationRate:        decimal.RequireFromString("0.02"),
		WithdrawalRate:       decimal.RequireFromString("0.04"),
		TaxRate:              decimal.RequireFromString("0.15"),
		InitialCapital:       decimal.NewFromInt(10000),
		DesiredMonthlyIncome: decimal.NewFromInt(desired),
		TaxOption:            domain.TaxWholeCapital,
		Periods:              []domain.DepositPeriod{{Years: 2, MonthlyDeposit: decimal.NewFromInt(200)}},
	}
	res, err := calculation.Project(in)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}
	return &Report{Name: "Baseline", Input: in, Result: res, GeneratedAt: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)}
}

func TestGetFormatterByName(t *testing.T) {
	cases := map[string]string{
		"console":  "console",
		"TEXT":     "console",
		"verbose":  "console-verbose",
		" csv ":    "csv",
		"json":     "json",
		"html":     "html",
		"xml":      "",
		"":         "",
	}
	for in, want := range cases {
		f := GetFormatterByName(in)
		if want == "" {
			if f != nil {
				t.Fatalf("expected no formatter for %q, got %s", in, f.Name())
			}
			continue
		}
		if f == nil || f.Name() != want {
			t.Fatalf("expected %s for %q, got %v", want, in, f)
		}
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	got := strings.Join(AvailableFormatterNames(), ",")
	if got != "console,console-verbose,csv,html,json" {
		t.Fatalf("unexpected formatter names: %s", got)
	}
}

func TestConsoleFormatter_Shortfall(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"INVESTMENT SUMMARY: Baseline", "Tax applied to: Entire capital", "Period 1: $200.00 per month for 2 years", "SHORTFALL: Target not met.", "Capital Growth Over Time"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in console output:\n%s", want, content)
		}
	}
}

func TestConsoleFormatter_Success(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "SUCCESS: Target met! Achieved after 0 years and 1 months.") {
		t.Fatalf("expected success banner with goal, got:\n%s", out)
	}
}

func TestConsoleVerboseFormatter_YearTable(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport(t, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "YEAR-END CAPITAL") || !strings.Contains(content, "ASSUMPTIONS") {
		t.Fatalf("expected verbose sections, got:\n%s", content)
	}
	if strings.Count(content, "<- goal reached") != 1 {
		t.Fatalf("expected exactly one goal marker, got:\n%s", content)
	}
}

func TestCSVFormatter_Layout(t *testing.T) {
	r := buildTestReport(t, 1000)
	out, err := CSVFormatter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parts := strings.SplitN(string(out), "\n\n", 2)
	if len(parts) != 2 {
		t.Fatalf("expected a blank line between the parameter and month tables:\n%s", out)
	}

	params, err := csv.NewReader(strings.NewReader(parts[0])).ReadAll()
	if err != nil {
		t.Fatalf("parameter table is not valid CSV: %v", err)
	}
	if params[0][0] != "Parameter" || params[0][1] != "Value" {
		t.Fatalf("unexpected parameter header: %v", params[0])
	}

	months, err := csv.NewReader(strings.NewReader(parts[1])).ReadAll()
	if err != nil {
		t.Fatalf("month table is not valid CSV: %v", err)
	}
	if strings.Join(months[0], ",") != "Month,CapitalBeforeTax,CapitalAfterTax" {
		t.Fatalf("unexpected month header: %v", months[0])
	}
	if len(months)-1 != r.Result.TotalMonths {
		t.Fatalf("expected %d month rows, got %d", r.Result.TotalMonths, len(months)-1)
	}
	last := months[len(months)-1]
	if last[0] != "24" || last[1] != r.Result.FinalCapital.StringFixed(2) {
		t.Fatalf("last row does not match final capital: %v", last)
	}
}

func TestJSONFormatter_RoundTrip(t *testing.T) {
	r := buildTestReport(t, 1000)
	out, err := JSONFormatter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Inputs    domain.SimulationInput  `json:"inputs"`
		Results   domain.SimulationResult `json:"results"`
		TargetMet bool                    `json:"targetMet"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !decoded.Results.FinalCapital.Equal(r.Result.FinalCapital) {
		t.Fatalf("final capital changed: %s vs %s", decoded.Results.FinalCapital, r.Result.FinalCapital)
	}
	if len(decoded.Results.Timeline) != 24 || decoded.Inputs.TaxOption != domain.TaxWholeCapital || decoded.TargetMet {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
	if !strings.Contains(string(out), `"capitalBeforeTax"`) {
		t.Fatalf("expected timeline column names in JSON")
	}
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t, 1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "Investment Summary: Baseline", "class=\"banner shortfall\"", "<polyline", "over 24 months"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestGenerateReport(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateReport(&buf, buildTestReport(t, 1000), "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected output")
	}
	if err := GenerateReport(&buf, buildTestReport(t, 1000), "pdf"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	name, err := WriteFormatted(CSVFormatter{}, buildTestReport(t, 1000), dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(name) != "riseplan_report_20260501_093000.csv" {
		t.Fatalf("unexpected filename %s", name)
	}
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestAssessment_DivisionHazard(t *testing.T) {
	r := buildTestReport(t, 0)
	r.Result.RiseThreshold = nil
	r.Result.GoalReachedAt = nil
	if got := Assessment(r); got != "SUCCESS: Target met!" {
		t.Fatalf("unexpected assessment %q", got)
	}
	if FormatThreshold(r.Result.RiseThreshold) != "undefined" {
		t.Fatal("expected undefined threshold")
	}
}

func TestSensitivityFormatters(t *testing.T) {
	in := buildTestReport(t, 1000).Input
	analysis, err := calculation.NewSensitivityAnalyzer(nil).AnalyzeSingleParameter(context.Background(), in, domain.SensitivityParameter{
		Name: "monthly_deposit", MinValue: decimal.NewFromInt(100), MaxValue: decimal.NewFromInt(300), Steps: 3,
	})
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}

	console, err := NewSensitivityFormatter("table").FormatSensitivityAnalysis(analysis)
	if err != nil {
		t.Fatalf("console: %v", err)
	}
	if !strings.Contains(console, "SENSITIVITY ANALYSIS: MONTHLY DEPOSIT") || !strings.Contains(console, "$300.00") {
		t.Fatalf("unexpected console output:\n%s", console)
	}

	csvOut, err := NewSensitivityFormatter("csv").FormatSensitivityAnalysis(analysis)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if rows := strings.Split(strings.TrimSpace(csvOut), "\n"); len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}

	jsonOut, err := NewSensitivityFormatter("json").FormatSensitivityAnalysis(analysis)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(jsonOut, `"riskLevel"`) {
		t.Fatalf("expected summary in JSON output")
	}
}
