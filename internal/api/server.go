// Package api exposes the projection engine, comparisons and saved runs over HTTP.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rgehrsitz/riseplan/internal/breakeven"
	"github.com/rgehrsitz/riseplan/internal/calculation"
	"github.com/rgehrsitz/riseplan/internal/compare"
	"github.com/rgehrsitz/riseplan/internal/storage"
	"github.com/sirupsen/logrus"
)

// Server holds the services the handlers call. Store may be nil, in which case the /v1/runs routes answer 503.
type Server struct {
	engine      *calculation.ProjectionEngine
	compare     *compare.CompareEngine
	sensitivity *calculation.SensitivityAnalyzer
	solver      *breakeven.Solver
	store       storage.RunStore
	logger      logrus.FieldLogger
}

// NewServer wires the handlers to one projection engine.
func NewServer(engine *calculation.ProjectionEngine, store storage.RunStore, logger logrus.FieldLogger) *Server {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Server{
		engine:      engine,
		compare:     compare.NewCompareEngine(engine),
		sensitivity: calculation.NewSensitivityAnalyzer(engine),
		solver:      breakeven.NewDefaultSolver(engine),
		store:       store,
		logger:      logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/projections", s.createProjection).Methods(http.MethodPost)
	v1.HandleFunc("/projections/compare", s.compareProjection).Methods(http.MethodPost)
	v1.HandleFunc("/projections/sensitivity", s.sensitivityProjection).Methods(http.MethodPost)
	v1.HandleFunc("/projections/solve", s.solveProjection).Methods(http.MethodPost)

	runs := v1.PathPrefix("/runs").Subrouter()
	runs.Use(s.requireStore)
	runs.HandleFunc("", s.listRuns).Methods(http.MethodGet)
	runs.HandleFunc("", s.createRun).Methods(http.MethodPost)
	runs.HandleFunc("/{id}", s.getRun).Methods(http.MethodGet)
	runs.HandleFunc("/{id}", s.deleteRun).Methods(http.MethodDelete)
	runs.HandleFunc("/{id}/export.csv", s.exportRun).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// HTTPServer returns a server for addr with the same timeouts the CLI uses.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "run storage is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}
