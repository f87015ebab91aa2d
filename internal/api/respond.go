package api

import (
	"context"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/riseplan/internal/breakeven"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/storage"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Status: status, Message: message})
}

// statusFor maps an error to an HTTP status; fallback covers anything unrecognised.
func statusFor(err error, fallback int) int {
	var solverErr *breakeven.SolverError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPeriodExhausted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.As(err, &solverErr):
		return http.StatusUnprocessableEntity
	default:
		return fallback
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
