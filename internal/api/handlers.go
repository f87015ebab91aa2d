package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rgehrsitz/riseplan/internal/breakeven"
	"github.com/rgehrsitz/riseplan/internal/compare"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/output"
)

// ProjectionRequest names an input. Rates are fractions.
type ProjectionRequest struct {
	Name  string                 `json:"name"`
	Input domain.SimulationInput `json:"inputs"`
}

// CompareRequest compares the base input under both tax options, or against the given alternatives.
type CompareRequest struct {
	Name         string                 `json:"name"`
	Input        domain.SimulationInput `json:"inputs"`
	Alternatives []compare.Scenario     `json:"alternatives"`
}

// SensitivityRequest sweeps one parameter of the input.
type SensitivityRequest struct {
	Input     domain.SimulationInput      `json:"inputs"`
	Parameter domain.SensitivityParameter `json:"parameter"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createProjection(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.engine.Project(r.Context(), req.Input)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}

	body, err := output.JSONFormatter{}.Format(output.NewReport(req.Name, req.Input, result))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) compareProjection(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var (
		set *compare.ComparisonSet
		err error
	)
	if len(req.Alternatives) == 0 {
		set, err = s.compare.CompareTaxOptions(r.Context(), req.Name, req.Input)
	} else {
		name := req.Name
		if name == "" {
			name = "base"
		}
		set, err = s.compare.Compare(r.Context(), compare.Scenario{Name: name, Input: req.Input}, req.Alternatives)
	}
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) sensitivityProjection(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	analysis, err := s.sensitivity.AnalyzeSingleParameter(r.Context(), req.Input, req.Parameter)
	if err != nil {
		// Bad sweep definitions come back as plain errors.
		writeError(w, statusFor(err, http.StatusBadRequest), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) solveProjection(w http.ResponseWriter, r *http.Request) {
	var req breakeven.OptimizationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.solver.Optimize(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	if runs == nil {
		runs = []domain.RunSummary{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.engine.Project(r.Context(), req.Input)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}

	saved, err := s.store.SaveRun(r.Context(), domain.SavedRun{Name: req.Name, Input: req.Input, Result: *result})
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	s.logger.WithField("run_id", saved.ID).Info("run saved")

	w.Header().Set("Location", "/v1/runs/"+saved.ID)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRun(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err, http.StatusInternalServerError), err.Error())
		return
	}

	body, err := output.CSVFormatter{}.Format(output.ReportFromRun(&run))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "riseplan_"+id+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
