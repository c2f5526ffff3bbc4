// Package api serves analyses over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/loggraph/internal/adapters/http/swagger"
	"github.com/okian/loggraph/internal/adapters/render"
	"github.com/okian/loggraph/internal/adapters/repository"
	service "github.com/okian/loggraph/internal/app"
	"github.com/okian/loggraph/internal/domain/grammar"
	"github.com/okian/loggraph/internal/domain/logreader"
	"github.com/okian/loggraph/internal/domain/registry"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/internal/domain/timeline"
)

const (
	defaultLimit   = 10
	defaultMaxBody = 64 << 20
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Ingest(ctx context.Context, name string, body []byte) (*service.Analysis, bool, error)
	Lookup(id string) (*service.Analysis, error)
	Graph(ctx context.Context, a *service.Analysis, id selector.Identifier, batching int64) (*service.Graph, error)
	Leaderboard(ctx context.Context, logID string, n int) ([]repository.Entry, error)
	Batching() int64
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	deps     Dependencies
	canvas   render.Canvas
	maxLimit int
	maxBody  int64
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		canvas:   render.DefaultCanvas(),
		maxLimit: 100,
		maxBody:  defaultMaxBody,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Metrics)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metricsHandler())
	swagger.Register(r)
	r.Post("/logs", s.handleUpload)
	r.Route("/logs/{logID}", func(r chi.Router) {
		r.Get("/players", s.handlePlayers)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/timeline/{player}", s.handleTimeline)
		r.Get("/timeline/{player}/svg", s.handleTimelineSVG)
	})
	return r
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

// statusFor maps service and domain errors to a status and an error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrEmptyLog), errors.Is(err, timeline.ErrInvalidBatching):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrUnknownLog), errors.Is(err, selector.ErrPlayerNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrInProgress):
		return http.StatusConflict, "in_progress"
	case errors.Is(err, timeline.ErrDegenerateTimeline):
		return http.StatusUnprocessableEntity, "degenerate_timeline"
	case errors.Is(err, logreader.ErrMalformedTimestamp), errors.Is(err, grammar.ErrMalformedLine), errors.Is(err, registry.ErrIdentity):
		return http.StatusUnprocessableEntity, "malformed_log"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func fail(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
