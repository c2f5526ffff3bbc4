package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/loggraph/internal/adapters/render"
	service "github.com/okian/loggraph/internal/app"
	"github.com/okian/loggraph/internal/domain/selector"
)

// handleTimeline handles GET /logs/{logID}/timeline/{player}.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph(r)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.NewSummary(g.Timeline))
}

// handleTimelineSVG handles GET /logs/{logID}/timeline/{player}/svg.
func (s *Server) handleTimelineSVG(w http.ResponseWriter, r *http.Request) {
	g, err := s.graph(r)
	if err != nil {
		fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, s.canvas, g.Timeline); err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// graph resolves the path and query into a built timeline. The player is a
// stable id unless by=alias is given.
func (s *Server) graph(r *http.Request) (*service.Graph, error) {
	const op = "api.timeline"

	a, err := s.deps.Lookup(chi.URLParam(r, "logID"))
	if err != nil {
		return nil, err
	}

	raw, err := url.PathUnescape(chi.URLParam(r, "player"))
	if err != nil || raw == "" {
		return nil, fmt.Errorf("%s: %w: invalid player", op, ErrBadRequest)
	}
	id := selector.StableID(raw)
	if r.URL.Query().Get("by") == "alias" {
		id = selector.Alias(raw)
	}

	batching := s.deps.Batching()
	if v := r.URL.Query().Get("batching"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: %w: batching must be a positive integer", op, ErrBadRequest)
		}
		batching = n
	}

	return s.deps.Graph(r.Context(), a, id, batching)
}
