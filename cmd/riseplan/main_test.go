package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlan = `name: retirement
nominal_interest_percent: 7
inflation_rate_percent: 2
withdrawal_rate_percent: 4
tax_rate_percent: 15
initial_capital: 10000
desired_monthly_income: 50
tax_option: whole_capital
periods:
  - years: 10
    monthly_deposit: 200
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// resetFlags restores every flag to its default so tests do not leak state through the shared commands.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the CLI with a private database and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Setenv("RISEPLAN_DB_PATH", filepath.Join(t.TempDir(), "runs.db"))
	t.Setenv("RISEPLAN_LOG_LEVEL", "error")

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "riseplan", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"calculate", "validate", "compare", "sensitivity", "solve", "runs", "serve", "version"}
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %q should be registered", name)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, err := run(t, "invalid-command")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "riseplan dev")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writePlan(t, testPlan))
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := strings.Replace(testPlan, "tax_rate_percent: 15", "tax_rate_percent: 150", 1)
	_, err = run(t, "validate", writePlan(t, bad))
	assert.Error(t, err)

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCalculate_Formats(t *testing.T) {
	plan := writePlan(t, testPlan)

	out, err := run(t, "calculate", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = run(t, "calculate", plan, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Parameter,Value"))
	assert.Contains(t, out, "Month,CapitalBeforeTax,CapitalAfterTax")

	out, err = run(t, "calculate", plan, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalDeposits"`)

	_, err = run(t, "calculate", plan, "--format", "xml")
	assert.Error(t, err)
}

func TestCalculate_OutputDirectory(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "calculate", writePlan(t, testPlan), "--format", "html", "--output", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".html", filepath.Ext(entries[0].Name()))
}

func TestCalculateSaveAndRuns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	plan := writePlan(t, testPlan)

	_, err := run(t, "--db", db, "calculate", plan, "--save", "first")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "first")

	id := regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).FindString(out)
	require.NotEmpty(t, id)

	out, err = run(t, "--db", db, "runs", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "SUCCESS")

	out, err = run(t, "--db", db, "runs", "export", id)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Parameter,Value"))

	_, err = run(t, "--db", db, "runs", "delete", id)
	require.NoError(t, err)

	out, err = run(t, "--db", db, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved runs")

	_, err = run(t, "--db", db, "runs", "show", id)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", writePlan(t, testPlan))
	require.NoError(t, err)
	assert.Contains(t, out, "PROJECTION COMPARISON")
	assert.Contains(t, out, "retirement (Entire capital)")
	assert.Contains(t, out, "retirement (Interest only)")

	out, err = run(t, "compare", writePlan(t, testPlan), "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Interest only")

	_, err = run(t, "compare", writePlan(t, testPlan), "--format", "pdf")
	assert.Error(t, err)
}

func TestSensitivity(t *testing.T) {
	plan := writePlan(t, testPlan)

	out, err := run(t, "sensitivity", plan, "--parameter", "nominal_interest", "--range", "0.03-0.09", "--steps", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "SENSITIVITY ANALYSIS: NOMINAL INTEREST")

	out, err = run(t, "sensitivity", plan, "--parameter", "monthly_deposit", "--range", "100-300", "--steps", "3", "--format", "csv")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = run(t, "sensitivity", plan, "--parameter", "monthly_deposit")
	assert.Error(t, err)

	_, err = run(t, "sensitivity", plan, "--parameter", "bogus")
	assert.Error(t, err)
}

func TestSolve(t *testing.T) {
	plan := writePlan(t, testPlan)

	out, err := run(t, "solve", plan, "--years", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "DEPOSIT SOLVER RESULTS")
	assert.Contains(t, out, "Monthly Deposit:")

	out, err = run(t, "solve", plan, "--target", "capital", "--goal", "income", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"optimal_value"`)

	out, err = run(t, "solve", plan, "--target", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "ALL TARGETS")

	_, err = run(t, "solve", plan, "--target", "bonds")
	assert.Error(t, err)

	_, err = run(t, "solve", plan, "--min", "abc")
	assert.Error(t, err)
}

func TestResolveParameter(t *testing.T) {
	p, err := resolveParameter("inflation_rate", "", 5, false)
	require.NoError(t, err)
	assert.Equal(t, "inflation_rate", p.Name)
	assert.Positive(t, p.Steps)

	p, err = resolveParameter("initial_capital", "0-50000", 6, false)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Steps)
	assert.True(t, p.IsMonetary())
}

func TestParseRange(t *testing.T) {
	lo, hi, err := parseRange("-0.01-0.05")
	require.NoError(t, err)
	assert.Equal(t, "-0.01", lo.String())
	assert.Equal(t, "0.05", hi.String())

	for _, bad := range []string{"", "5", "a-b", "0.05-0.01"} {
		_, _, err := parseRange(bad)
		assert.Error(t, err, bad)
	}
}
