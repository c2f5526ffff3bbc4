package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/okian/loggraph/internal/adapters/repository"
	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/pkg/metrics"
	"github.com/okian/loggraph/pkg/tracing"
)

// PlayerSummary pairs a registered player with their summary. Degenerate is
// set when the player has too few events for a timeline.
type PlayerSummary struct {
	Index      int
	Events     int
	Degenerate bool
	Summary    repository.Summary
}

// Summaries builds every player's timeline concurrently and stores the
// non-degenerate summaries. The result is in registry order.
func (s *Service) Summaries(ctx context.Context, a *Analysis, batching int64) ([]PlayerSummary, error) {
	ctx, span := tracing.Start(ctx, "service.summaries")
	defer span.End()
	span.SetAttributes(attribute.String("log_id", a.ID), attribute.Int("players", len(a.Filtered)))

	out := make([]PlayerSummary, len(a.Filtered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workerCount, 1))

	for i, view := range a.Filtered {
		g.Go(func() error {
			ps := PlayerSummary{Index: view.Index, Events: len(view.Events)}
			graph, err := s.build(gctx, a.ID, view, batching)
			switch {
			case errors.Is(err, timeline.ErrDegenerateTimeline):
				ps.Degenerate = true
				ps.Summary = repository.Summary{
					LogID:      a.ID,
					StableID:   view.Player.StableID,
					Name:       view.Player.Name,
					Team:       view.Player.Team.String(),
					Batching:   batching,
					Noteworthy: []timeline.Moment{},
					CreatedAt:  time.Now().UTC(),
				}
			case err != nil:
				return err
			default:
				ps.Summary = graph.Summary
				if err := s.store.Put(gctx, graph.Summary); err != nil {
					return err
				}
			}
			out[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if n, err := s.store.Count(ctx, a.ID); err == nil {
		metrics.UpdateRepositorySummaries(n)
	}
	return out, nil
}

// Leaderboard returns the top n stored summaries of a log.
func (s *Service) Leaderboard(ctx context.Context, logID string, n int) ([]repository.Entry, error) {
	if _, err := s.Lookup(logID); err != nil {
		return nil, err
	}
	return s.store.TopN(ctx, logID, n)
}

// Close releases the summary store.
func (s *Service) Close() error {
	return s.store.Close()
}
