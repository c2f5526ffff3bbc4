package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type uploadResponse struct {
	LogID     string `json:"log_id"`
	Duplicate bool   `json:"duplicate"`
	Players   int    `json:"players"`
	Events    int    `json:"events"`
}

// handleUpload handles POST /logs with a raw log body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, fmt.Errorf("%s: %w", op, ErrTooLarge))
			return
		}
		fail(w, fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	a, dup, err := s.deps.Ingest(r.Context(), "upload "+middlewareRequestID(r), body)
	if err != nil {
		fail(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	status := http.StatusCreated
	if dup {
		status = http.StatusOK
	}
	writeJSON(w, status, uploadResponse{
		LogID:     a.ID,
		Duplicate: dup,
		Players:   len(a.Log.Players),
		Events:    len(a.Log.Events),
	})
}

type playerResponse struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	StableID string `json:"stable_id"`
	Team     string `json:"team"`
	Events   int    `json:"events"`
}

type playersResponse struct {
	LogID   string           `json:"log_id"`
	Players []playerResponse `json:"players"`
}

// handlePlayers handles GET /logs/{logID}/players.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	a, err := s.deps.Lookup(chi.URLParam(r, "logID"))
	if err != nil {
		fail(w, err)
		return
	}
	out := playersResponse{LogID: a.ID, Players: make([]playerResponse, len(a.Filtered))}
	for i, f := range a.Filtered {
		out.Players[i] = playerResponse{
			Index:    f.Index,
			Name:     f.Player.Name,
			StableID: f.Player.StableID,
			Team:     f.Player.Team.String(),
			Events:   len(f.Events),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
