package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/okian/loggraph/internal/adapters/mq/queue"
	"github.com/okian/loggraph/internal/adapters/mq/worker"
	"github.com/okian/loggraph/internal/domain/dedupe"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/pkg/logger"
	"github.com/okian/loggraph/pkg/tracing"
)

const enqueueRetry = time.Millisecond

// Sink receives each successfully built graph, e.g. to write its files.
type Sink interface {
	Accept(ctx context.Context, id selector.Identifier, g *Graph) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, id selector.Identifier, g *Graph) error

func (f SinkFunc) Accept(ctx context.Context, id selector.Identifier, g *Graph) error {
	return f(ctx, id, g)
}

// Outcome is the result for one requested identifier.
type Outcome struct {
	Identifier selector.Identifier
	Graph      *Graph
	Err        error
}

// Batch builds a graph for every identifier on the worker pool. Repeated
// identifiers run once. A failing identifier is reported in its Outcome and
// does not stop the others. Outcomes follow the order of first appearance.
func (s *Service) Batch(ctx context.Context, a *Analysis, ids []selector.Identifier, batching int64, sink Sink) ([]Outcome, error) {
	ctx, span := tracing.Start(ctx, "service.batch")
	defer span.End()

	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	var unique []selector.Identifier
	for _, id := range ids {
		if _, dup := seen.SeenAndRecord(ctx, id.String(), ""); dup {
			s.logger.Debug(ctx, "duplicate target skipped", logger.String("target", id.String()))
			continue
		}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, ErrNoTargets
	}
	span.SetAttributes(attribute.Int("targets", len(unique)))

	q := queue.NewInMemoryQueue(queue.WithCapacity(min(len(unique), s.queueSize)))
	var mu sync.Mutex
	graphs := make(map[string]*Graph, len(unique))
	results := make(map[string]error, len(unique))

	handler := worker.HandlerFunc(func(ctx context.Context, j queue.Job) error {
		g, err := s.Graph(ctx, a, j.Identifier, j.Batching)
		if err != nil {
			return err
		}
		if sink != nil {
			if err := sink.Accept(ctx, j.Identifier, g); err != nil {
				return fmt.Errorf("sink %s: %w", j.ID, err)
			}
		}
		mu.Lock()
		graphs[j.ID] = g
		mu.Unlock()
		return nil
	})

	pool := worker.NewPool(min(s.workerCount, len(unique)), q, handler)
	pool.Start(ctx)

	// Jobs beyond the queue capacity are fed while workers drain it.
	go func() {
		defer func() { _ = q.Close() }()
		for _, id := range unique {
			j := queue.Job{ID: id.String(), Identifier: id, Batching: batching}
			for {
				err := q.Enqueue(ctx, j)
				if err == nil {
					break
				}
				if ctx.Err() != nil {
					return
				}
				select {
				case <-ctx.Done():
					return
				case <-time.After(enqueueRetry):
				}
			}
		}
	}()

	for r := range pool.Results() {
		results[r.Job.ID] = r.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Outcome, len(unique))
	for i, id := range unique {
		out[i] = Outcome{Identifier: id, Graph: graphs[id.String()], Err: results[id.String()]}
		if out[i].Err != nil {
			s.logger.Warn(ctx, "target failed", logger.String("target", id.String()), logger.Error(out[i].Err))
		}
	}
	return out, nil
}
