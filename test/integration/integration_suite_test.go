package integration

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/config"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/output"
)

const (
	examplePlanPath  = "../testdata/example_plan.yaml"
	twoPhasePlanPath = "../testdata/two_phase_plan.json"
)

// loadPlan reads a testdata plan and converts it to engine input.
func loadPlan(t *testing.T, path string) (*config.PlanFile, domain.SimulationInput) {
	t.Helper()
	plan, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err, "Should load plan %s", path)
	return plan, plan.ToSimulationInput()
}

// TestIntegrationSuite runs the end-to-end checks grouped the way a release is verified.
func TestIntegrationSuite(t *testing.T) {
	setupTestEnvironment(t)

	t.Run("SmokeTests", func(t *testing.T) {
		t.Run("plan_loads_and_projects", func(t *testing.T) {
			_, in := loadPlan(t, examplePlanPath)
			result, err := calculation.NewProjectionEngine().Project(context.Background(), in)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Timeline, "Should produce a timeline")
		})

		t.Run("every_formatter_renders", func(t *testing.T) {
			plan, in := loadPlan(t, examplePlanPath)
			result, err := calculation.Project(in)
			require.NoError(t, err)

			report := output.NewReport(plan.Name, in, result)
			for _, name := range output.AvailableFormatterNames() {
				var buf bytes.Buffer
				require.NoError(t, output.GenerateReport(&buf, report, name), "format %s", name)
				assert.NotZero(t, buf.Len(), "format %s should write output", name)
			}
		})
	})

	t.Run("RegressionTests", func(t *testing.T) {
		t.Run("worked_example_figures", func(t *testing.T) {
			_, in := loadPlan(t, examplePlanPath)
			result, err := calculation.Project(in)
			require.NoError(t, err)

			assert.InDelta(t, 0.04902, result.RealInterestRate.InexactFloat64(), 1e-5)
			assert.Equal(t, 120, result.TotalMonths)
			assert.True(t, result.TotalDeposits.Equal(decimal.NewFromInt(34000)), "total deposits %s", result.TotalDeposits)
			assert.True(t, result.TaxAmount.Equal(result.FinalCapital.Mul(decimal.NewFromFloat(0.15))))
			require.NotNil(t, result.RiseThreshold)
			assert.InDelta(t, 352941.18, result.RiseThreshold.InexactFloat64(), 0.01)
			assert.Nil(t, result.GoalReachedAt)
		})

		t.Run("zero_year_phase_is_skipped", func(t *testing.T) {
			_, in := loadPlan(t, twoPhasePlanPath)
			result, err := calculation.Project(in)
			require.NoError(t, err)

			assert.Equal(t, 180, result.TotalMonths)
			// 5000 + 60*300 + 120*150
			assert.True(t, result.TotalDeposits.Equal(decimal.NewFromInt(41000)), "total deposits %s", result.TotalDeposits)
			assert.Len(t, result.Periods, 3, "Periods are echoed as given")
		})

		t.Run("interest_only_taxes_growth", func(t *testing.T) {
			_, in := loadPlan(t, twoPhasePlanPath)
			result, err := calculation.Project(in)
			require.NoError(t, err)

			expected := result.FinalCapital.Sub(result.TotalDeposits).Mul(decimal.NewFromFloat(0.25))
			assert.True(t, result.TaxAmount.Equal(expected), "tax %s, expected %s", result.TaxAmount, expected)
		})
	})
}

// setupTestEnvironment keeps logs quiet and points storage at a throwaway database.
func setupTestEnvironment(t *testing.T) {
	t.Helper()
	t.Setenv("RISEPLAN_LOG_LEVEL", "error")
	t.Setenv("RISEPLAN_DB_PATH", filepath.Join(t.TempDir(), "runs.db"))
}

// TestIntegrationBenchmarks checks that the heavier workloads stay interactive.
func TestIntegrationBenchmarks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping benchmarks in short mode")
	}
	setupTestEnvironment(t)

	t.Run("long_horizon_projection", func(t *testing.T) {
		_, in := loadPlan(t, examplePlanPath)
		in.Periods = []domain.DepositPeriod{{Years: 60, MonthlyDeposit: decimal.NewFromInt(500)}}

		start := time.Now()
		result, err := calculation.Project(in)
		duration := time.Since(start)

		require.NoError(t, err)
		assert.Len(t, result.Timeline, 720)
		assert.Less(t, duration, 5*time.Second, "Projection should complete within 5 seconds")
		t.Logf("720-month projection completed in %v", duration)
	})

	t.Run("sensitivity_sweep", func(t *testing.T) {
		_, in := loadPlan(t, examplePlanPath)
		param, ok := domain.LookupCommonParameter("nominal_interest")
		require.True(t, ok)

		start := time.Now()
		analysis, err := calculation.NewSensitivityAnalyzer(calculation.NewProjectionEngine()).
			AnalyzeSingleParameter(context.Background(), in, param)
		duration := time.Since(start)

		require.NoError(t, err)
		assert.Len(t, analysis.Results, len(param.Values()))
		assert.Less(t, duration, 10*time.Second, "Sweep should complete within 10 seconds")
		t.Logf("%d-point sweep completed in %v", len(analysis.Results), duration)
	})
}

// TestIntegrationDataValidation checks that bad plans are rejected before they reach the engine.
func TestIntegrationDataValidation(t *testing.T) {
	setupTestEnvironment(t)

	t.Run("testdata_plans_validate", func(t *testing.T) {
		for _, path := range []string{examplePlanPath, twoPhasePlanPath} {
			t.Run(filepath.Base(path), func(t *testing.T) {
				plan, _ := loadPlan(t, path)
				assert.NoError(t, config.NewInputParser().ValidatePlan(plan))
				assert.NotEmpty(t, plan.Periods, "Should have deposit periods")
			})
		}
	})

	t.Run("invalid_plans_are_rejected", func(t *testing.T) {
		cases := map[string]func(p *config.PlanFile){
			"tax_rate_above_100": func(p *config.PlanFile) { p.TaxRatePercent = decimal.NewFromInt(101) },
			"negative_capital":   func(p *config.PlanFile) { p.InitialCapital = decimal.NewFromInt(-1) },
			"negative_deposit": func(p *config.PlanFile) {
				p.Periods = []domain.DepositPeriod{{Years: 1, MonthlyDeposit: decimal.NewFromInt(-5)}}
			},
			"negative_years": func(p *config.PlanFile) {
				p.Periods = []domain.DepositPeriod{{Years: -1, MonthlyDeposit: decimal.NewFromInt(5)}}
			},
			"unknown_tax_option": func(p *config.PlanFile) { p.TaxOption = domain.TaxOption("sometimes") },
		}

		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				plan, _ := loadPlan(t, examplePlanPath)
				mutate(plan)

				err := config.NewInputParser().ValidatePlan(plan)
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)

				var ve *domain.ValidationError
				assert.ErrorAs(t, err, &ve)
			})
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := config.NewInputParser().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
