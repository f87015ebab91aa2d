package compare

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleComparisonSet() *ComparisonSet {
	goalBase := domain.GoalReachedAt{Years: 12, Months: 3}
	goalAlt := domain.GoalReachedAt{Years: 11, Months: 1}
	diff := -14
	return &ComparisonSet{
		BaseScenarioName: "Base Plan",
		Source:           "plans/base.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:          "Base Plan",
			TaxOption:             domain.TaxWholeCapital,
			FinalCapital:          decimal.NewFromInt(500000),
			TotalDeposits:         decimal.NewFromInt(300000),
			TaxAmount:             decimal.NewFromInt(75000),
			CapitalAfterTax:       decimal.NewFromInt(425000),
			MonthlyIncomeAfterTax: decimal.RequireFromString("1416.67"),
			GoalReachedAt:         &goalBase,
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:          "Interest Only",
				TaxOption:             domain.TaxInterestOnly,
				FinalCapital:          decimal.NewFromInt(500000),
				TotalDeposits:         decimal.NewFromInt(300000),
				TaxAmount:             decimal.NewFromInt(30000),
				CapitalAfterTax:       decimal.NewFromInt(470000),
				MonthlyIncomeAfterTax: decimal.RequireFromString("1566.67"),
				GoalReachedAt:         &goalAlt,
				TargetMet:             true,
				IncomeDiffFromBase:    decimal.NewFromInt(150),
				IncomePctFromBase:     decimal.RequireFromString("10.59"),
				TaxDiffFromBase:       decimal.NewFromInt(-45000),
				GoalMonthsDiff:        &diff,
			},
		},
		Recommendations: []string{
			"Best Income: Interest Only provides $150.00 more monthly income after tax than Base Plan",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(sampleComparisonSet())

	for _, want := range []string{
		"PROJECTION COMPARISON",
		"Base Scenario: Base Plan",
		"Plan: plans/base.yaml",
		"Base Plan (base)",
		"Interest Only",
		"12y 3m",
		"Monthly Income:   +$150.00 (10.6%)",
		"Tax Impact:       -$45.0K",
		"Goal Timing:      -14 months",
		"RECOMMENDATIONS",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output:\n%s", want, result)
		}
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := sampleComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	result := (&TableFormatter{}).Format(compSet)

	if !strings.Contains(result, "Base Plan") {
		t.Error("Expected base scenario in table")
	}
	if strings.Contains(result, "COMPARISON TO BASE") || strings.Contains(result, "Interest Only") {
		t.Error("Should not have alternative scenarios in output")
	}
}

func TestTableFormatter_formatRow_GoalNotReached(t *testing.T) {
	row := (&TableFormatter{}).formatRow(&ComparisonResult{
		ScenarioName:          "A very long scenario name that needs truncation",
		FinalCapital:          decimal.NewFromInt(2500000),
		TaxAmount:             decimal.NewFromInt(500),
		MonthlyIncomeAfterTax: decimal.NewFromInt(10),
	}, 32, 14, false)

	if !strings.Contains(row, "not reached") {
		t.Errorf("expected 'not reached' in %q", row)
	}
	if !strings.Contains(row, "$2.50M") {
		t.Errorf("expected millions formatting in %q", row)
	}
	if !strings.Contains(row, "...") {
		t.Errorf("expected truncated name in %q", row)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	got := (&TableFormatter{}).FormatCompact(sampleComparisonSet())
	want := "Base: Base Plan | Interest Only: +$150.00/mo"
	if got != want {
		t.Fatalf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	result, err := (&CSVFormatter{}).Format(sampleComparisonSet())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %d lines:\n%s", len(lines), result)
	}
	if !strings.HasPrefix(lines[0], "Scenario,Type,Tax Option") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Base Plan,base,whole_capital,500000.00") {
		t.Errorf("unexpected base row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",133,true,150.00,10.59,-45000.00,-14") {
		t.Errorf("unexpected alternative row %q", lines[2])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		result, err := (&JSONFormatter{Pretty: pretty}).Format(sampleComparisonSet())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(result), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["baseScenarioName"] != "Base Plan" {
			t.Errorf("baseScenarioName = %v", decoded["baseScenarioName"])
		}
		if decoded["highestIncome"] != "Interest Only" {
			t.Errorf("highestIncome = %v", decoded["highestIncome"])
		}
		if pretty != strings.Contains(result, "\n  ") {
			t.Errorf("pretty=%v but indentation mismatch", pretty)
		}
	}
}

func TestFormatComparison(t *testing.T) {
	compSet := sampleComparisonSet()
	for _, format := range []string{"", "table", "compact", "csv", "json"} {
		out, err := FormatComparison(compSet, format)
		if err != nil {
			t.Fatalf("FormatComparison(%q) error: %v", format, err)
		}
		if out == "" {
			t.Errorf("FormatComparison(%q) returned empty output", format)
		}
	}
	if _, err := FormatComparison(compSet, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
