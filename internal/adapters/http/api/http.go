// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/evsig/internal/domain/blame"
	"github.com/okian/evsig/internal/domain/integral"
	"github.com/okian/evsig/internal/domain/model"
	"github.com/okian/evsig/internal/domain/poisson"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Score(ctx context.Context, train model.Train, rate float64) (float64, error)
	Integral(ctx context.Context, train model.Train, rate float64, w model.Window) (float64, error)
	ScoreBlame(ctx context.Context, train model.Train, rate float64) ([]float64, error)
	IntegralBlame(ctx context.Context, train model.Train, rate float64, w model.Window) ([]float64, error)
	DefaultWindow() model.Window
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	scoreHandler    *ScoreHandler
	integralHandler *IntegralHandler
	blameHandler    *BlameHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		scoreHandler:    NewScoreHandler(deps),
		integralHandler: NewIntegralHandler(deps),
		blameHandler:    NewBlameHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/api/v1/score", RequestIDMiddleware(MetricsMiddleware(s.scoreHandler.HandleScore, "score")))
	mux.HandleFunc("/api/v1/integral", RequestIDMiddleware(MetricsMiddleware(s.integralHandler.HandleIntegral, "integral")))
	mux.HandleFunc("/api/v1/blame", RequestIDMiddleware(MetricsMiddleware(s.blameHandler.HandleBlame, "blame")))
}

// scoreRequest is the body shared by score and blame requests; integral
// and blame additionally take window bounds.
type scoreRequest struct {
	Rate   float64   `json:"rate"`
	Events []float64 `json:"events"`
	TMin   *float64  `json:"t_min,omitempty"`
	TMax   *float64  `json:"t_max,omitempty"`
	Method string    `json:"method,omitempty"`
}

// window resolves the request bounds, falling back to the service default.
func (r scoreRequest) window(deps Dependencies) model.Window {
	w := deps.DefaultWindow()
	if r.TMin != nil {
		w.TMin = *r.TMin
	}
	if r.TMax != nil {
		w.TMax = *r.TMax
	}
	return w
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeComputeError maps engine errors onto HTTP statuses: invalid inputs
// are the caller's fault, NaN faults and anything else are ours.
func writeComputeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, poisson.ErrInvalidRate),
		errors.Is(err, integral.ErrInvalidWindow),
		errors.Is(err, model.ErrUnsorted),
		errors.Is(err, model.ErrNegativeTime),
		errors.Is(err, model.ErrNotFinite),
		errors.Is(err, model.ErrInvalidBounds):
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, err))
	case errors.Is(err, blame.ErrNaN):
		writeError(w, http.StatusInternalServerError, "computation_error", fmt.Errorf("%s: %w", op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
	}
}
