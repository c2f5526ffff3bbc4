// Package repository stores per-player timeline summaries and ranks them
// within a log.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/loggraph/internal/domain/timeline"
)

// Summary is the stored outcome of one player's timeline in one log.
type Summary struct {
	LogID      string            `json:"log_id"`
	StableID   string            `json:"stable_id"`
	Name       string            `json:"name"`
	Team       string            `json:"team"`
	Batching   int64             `json:"batching"`
	Scale      float64           `json:"scale"`
	TotalScore float64           `json:"total_score"`
	PeakScore  float64           `json:"peak_score"`
	Groups     int               `json:"groups"`
	Noteworthy []timeline.Moment `json:"noteworthy"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FromTimeline summarises t for logID.
func FromTimeline(logID string, t *timeline.Timeline) Summary {
	return Summary{
		LogID:      logID,
		StableID:   t.Player.StableID,
		Name:       t.Player.Name,
		Team:       t.Player.Team.String(),
		Batching:   t.Batching,
		Scale:      float64(t.Scale),
		TotalScore: float64(t.TotalScore()),
		PeakScore:  float64(t.PeakScore()),
		Groups:     len(t.Groups),
		Noteworthy: t.Noteworthy,
		CreatedAt:  time.Now().UTC(),
	}
}

func (s Summary) validate() error {
	if s.LogID == "" || s.StableID == "" {
		return fmt.Errorf("%w: log id and stable id are required", ErrInvalid)
	}
	return nil
}

// Entry is a leaderboard row. Equal total scores share a rank.
type Entry struct {
	Rank int
	Summary
}

// Store provides read/write access to summaries.
type Store interface {
	// Put inserts or replaces the summary for (LogID, StableID).
	Put(ctx context.Context, s Summary) error

	// Get returns ErrNotFound when the pair is unknown.
	Get(ctx context.Context, logID, stableID string) (Summary, error)

	// TopN returns up to n entries of logID ordered by total score desc,
	// then stable id asc.
	TopN(ctx context.Context, logID string, n int) ([]Entry, error)

	// Count returns the number of summaries held for logID.
	Count(ctx context.Context, logID string) (int, error)

	Close() error
}

// assignRanks gives consecutive dense ranks; ties share one.
func assignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].TotalScore != entries[i-1].TotalScore {
			rank++
		}
		entries[i].Rank = rank
	}
}

// less orders a before b on the leaderboard.
func less(aScore float64, aID string, bScore float64, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}
