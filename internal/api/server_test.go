package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planBody = `{
	"name": "baseline",
	"inputs": {
		"nominalInterest": "0.07",
		"inflationRate": "0.02",
		"withdrawalRate": "0.04",
		"taxRate": "0.15",
		"initialCapital": "10000",
		"desiredMonthlyIncome": "1000",
		"taxOption": "whole_capital",
		"periods": [{"years": 10, "monthlyDeposit": "200"}]
	}
}`

func newTestServer(t *testing.T, withStore bool) http.Handler {
	t.Helper()
	if !withStore {
		return NewServer(nil, nil, nil).Router()
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewServer(nil, store, nil).Router()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, rec.Code, e.Status)
	return e
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateProjection(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodPost, "/v1/projections", planBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Name      string                  `json:"name"`
		Results   domain.SimulationResult `json:"results"`
		TargetMet bool                    `json:"targetMet"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "baseline", body.Name)
	assert.Equal(t, 120, body.Results.TotalMonths)
	assert.Len(t, body.Results.Timeline, 120)
	assert.Equal(t, "34000", body.Results.TotalDeposits.String())
	assert.False(t, body.TargetMet)
}

func TestCreateProjection_Errors(t *testing.T) {
	h := newTestServer(t, false)

	rec := do(t, h, http.MethodPost, "/v1/projections", `{"inputs": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "Invalid request body")

	rec = do(t, h, http.MethodPost, "/v1/projections", `{"unknown": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	invalid := strings.Replace(planBody, `"taxRate": "0.15"`, `"taxRate": "1.5"`, 1)
	rec = do(t, h, http.MethodPost, "/v1/projections", invalid)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "tax_rate")

	rec = do(t, h, http.MethodGet, "/v1/projections", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompareProjection_TaxOptions(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodPost, "/v1/projections/compare", planBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var set struct {
		BaseScenarioName   string `json:"baseScenarioName"`
		AlternativeResults []struct {
			TaxOption string `json:"taxOption"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, "baseline (Entire capital)", set.BaseScenarioName)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "interest_only", set.AlternativeResults[0].TaxOption)
}

func TestSensitivityProjection(t *testing.T) {
	body := strings.Replace(planBody, `"name": "baseline",`,
		`"parameter": {"name": "nominal_interest", "minValue": "0.03", "maxValue": "0.09", "steps": 4},`, 1)
	rec := do(t, newTestServer(t, false), http.MethodPost, "/v1/projections/sensitivity", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis domain.ParameterSensitivityAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Len(t, analysis.Results, 4)

	for _, steps := range []string{`"steps": 0`, `"steps": 1000000000`} {
		bad := strings.Replace(body, `"steps": 4`, steps, 1)
		rec = do(t, newTestServer(t, false), http.MethodPost, "/v1/projections/sensitivity", bad)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, steps)
		assert.Contains(t, decodeError(t, rec).Message, "steps")
	}

	unknown := strings.Replace(body, `"name": "nominal_interest"`, `"name": "bogus"`, 1)
	rec = do(t, newTestServer(t, false), http.MethodPost, "/v1/projections/sensitivity", unknown)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSolveProjection(t *testing.T) {
	body := `{
		"inputs": {
			"nominalInterest": 0.07, "inflationRate": 0.02, "withdrawalRate": 0.04, "taxRate": 0.15,
			"initialCapital": 0, "desiredMonthlyIncome": 50, "taxOption": "whole_capital",
			"periods": [{"years": 10, "monthlyDeposit": 100}]
		},
		"target": "monthly_deposit",
		"goal": "reach_goal",
		"constraints": {"years": 5}
	}`
	h := newTestServer(t, false)

	rec := do(t, h, http.MethodPost, "/v1/projections/solve", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)

	rec = do(t, h, http.MethodPost, "/v1/projections/solve", strings.Replace(body, `"years": 5`, `"years": 0`, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "years is required")

	negative := strings.Replace(body, `"constraints": {"years": 5}`, `"constraints": {"years": 5}, "tolerance": "-1", "max_iterations": 1000000000`, 1)
	rec = do(t, h, http.MethodPost, "/v1/projections/solve", negative)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "tolerance")

	unbounded := strings.Replace(body, `"constraints": {"years": 5}`, `"constraints": {"years": 5}, "max_iterations": 1000000000`, 1)
	rec = do(t, h, http.MethodPost, "/v1/projections/solve", unbounded)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var clamped struct {
		Request struct {
			MaxIterations int `json:"max_iterations"`
		} `json:"request"`
		Iterations int `json:"iterations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clamped))
	assert.Equal(t, 100, clamped.Request.MaxIterations)
	assert.LessOrEqual(t, clamped.Iterations, 101)
}

func TestRunsLifecycle(t *testing.T) {
	h := newTestServer(t, true)

	rec := do(t, h, http.MethodGet, "/v1/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/v1/runs", planBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var saved domain.SavedRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, "/v1/runs/"+saved.ID, rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/v1/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []domain.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, saved.ID, summaries[0].ID)

	rec = do(t, h, http.MethodGet, "/v1/runs/"+saved.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched domain.SavedRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, "baseline", fetched.Name)
	assert.True(t, saved.Result.FinalCapital.Equal(fetched.Result.FinalCapital))

	rec = do(t, h, http.MethodGet, "/v1/runs/"+saved.ID+"/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("Parameter,Value\n")))
	assert.Contains(t, rec.Body.String(), "Month,CapitalBeforeTax,CapitalAfterTax")

	rec = do(t, h, http.MethodDelete, "/v1/runs/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/runs/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeError(t, rec)

	rec = do(t, h, http.MethodDelete, "/v1/runs/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/runs?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunsWithoutStore(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/v1/runs", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "run storage is not configured", decodeError(t, rec).Message)
}
