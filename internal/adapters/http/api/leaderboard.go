package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type leaderResponse struct {
	Rank       int     `json:"rank"`
	StableID   string  `json:"stable_id"`
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	TotalScore float64 `json:"total_score"`
	PeakScore  float64 `json:"peak_score"`
	Noteworthy int     `json:"noteworthy"`
}

type leaderboardResponse struct {
	LogID   string           `json:"log_id"`
	Entries []leaderResponse `json:"entries"`
}

// handleLeaderboard handles GET /logs/{logID}/leaderboard?limit=N.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.leaderboard"
	n := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			fail(w, fmt.Errorf("%s: %w: limit must be a positive integer", op, ErrBadRequest))
			return
		}
		n = v
	}
	if n > s.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			fmt.Errorf("%s: %w: limit above %d", op, ErrBadRequest, s.maxLimit))
		return
	}

	logID := chi.URLParam(r, "logID")
	entries, err := s.deps.Leaderboard(r.Context(), logID, n)
	if err != nil {
		fail(w, err)
		return
	}
	out := leaderboardResponse{LogID: logID, Entries: make([]leaderResponse, len(entries))}
	for i, e := range entries {
		out.Entries[i] = leaderResponse{
			Rank:       e.Rank,
			StableID:   e.StableID,
			Name:       e.Name,
			Team:       e.Team,
			TotalScore: e.TotalScore,
			PeakScore:  e.PeakScore,
			Noteworthy: len(e.Noteworthy),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
