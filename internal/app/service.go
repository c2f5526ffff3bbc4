// Package service wires log acquisition, parsing, timeline building and
// result storage into the operations the CLI and the HTTP API expose.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/okian/loggraph/internal/adapters/repository"
	"github.com/okian/loggraph/internal/adapters/source"
	"github.com/okian/loggraph/internal/domain/dedupe"
	"github.com/okian/loggraph/internal/domain/filter"
	"github.com/okian/loggraph/internal/domain/logreader"
	"github.com/okian/loggraph/internal/domain/model"
	"github.com/okian/loggraph/internal/domain/selector"
	"github.com/okian/loggraph/internal/domain/timeline"
	"github.com/okian/loggraph/pkg/logger"
	"github.com/okian/loggraph/pkg/metrics"
	"github.com/okian/loggraph/pkg/tracing"
)

// Analysis is one parsed log with every player's filtered view.
type Analysis struct {
	ID       string
	Source   string
	Log      *logreader.Log
	Filtered []model.FilteredEvents
	ReadAt   time.Time
}

// Graph is one player's built timeline.
type Graph struct {
	LogID    string
	Timeline *timeline.Timeline
	Summary  repository.Summary
}

// Service implements the analysis operations.
type Service struct {
	reader  *logreader.Reader
	builder *timeline.Builder
	store   repository.Store
	uploads dedupe.Deduper

	workerCount int
	queueSize   int
	dedupeSize  int
	batching    int64

	mu       sync.RWMutex
	analyses map[string]*Analysis
	order    []string
	pending  map[string]struct{}

	logger logger.Logger
}

// New constructs a Service. Unset collaborators get defaults: the default
// reader and builder and an in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		dedupeSize:  10000,
		batching:    10,
		analyses:    make(map[string]*Analysis),
		pending:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.reader == nil {
		s.reader = logreader.New(logreader.WithLogger(s.logger))
	}
	if s.builder == nil {
		s.builder = timeline.NewBuilder()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.uploads = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Batching is the default batching window in seconds.
func (s *Service) Batching() int64 { return s.batching }

// Builder exposes the timeline builder, e.g. for its layout.
func (s *Service) Builder() *timeline.Builder { return s.builder }

// Store exposes the summary store.
func (s *Service) Store() repository.Store { return s.store }

// Analyze acquires, reads and filters a log.
func (s *Service) Analyze(ctx context.Context, src source.Source) (*Analysis, error) {
	return s.analyze(ctx, uuid.NewString(), src)
}

func (s *Service) analyze(ctx context.Context, id string, src source.Source) (*Analysis, error) {
	ctx, span := tracing.Start(ctx, "service.analyze")
	defer span.End()
	span.SetAttributes(attribute.String("log_id", id), attribute.String("source", src.Name()))

	lines, err := src.Lines(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "acquire")
		return nil, fmt.Errorf("acquire %s: %w", src.Name(), err)
	}

	log, err := s.reader.Read(ctx, lines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read")
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	a := &Analysis{
		ID:       id,
		Source:   src.Name(),
		Log:      log,
		Filtered: filter.All(log),
		ReadAt:   time.Now().UTC(),
	}

	s.remember(a)

	metrics.RecordLogAnalyzed()
	s.logger.Info(ctx, "log analyzed",
		logger.String("log_id", a.ID),
		logger.String("source", a.Source),
		logger.Int("players", len(log.Players)),
		logger.Int("events", len(log.Events)))
	return a, nil
}

// remember keeps a for Lookup. At most dedupeSize analyses are kept; the
// oldest goes first.
func (s *Service) remember(a *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.analyses[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.analyses[a.ID] = a
	for len(s.order) > s.dedupeSize {
		delete(s.analyses, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *Service) setPending(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.pending[id] = struct{}{}
		return
	}
	delete(s.pending, id)
}

func (s *Service) isPending(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.pending[id]
	return ok
}

// Ingest analyzes an uploaded log body and stores a summary for every
// player. A body seen before returns the earlier analysis and true.
func (s *Service) Ingest(ctx context.Context, name string, body []byte) (*Analysis, bool, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, false, ErrEmptyLog
	}

	digest := dedupe.Digest(body)
	id := uuid.NewString()
	s.setPending(id, true)
	defer s.setPending(id, false)
	if prior, seen := s.uploads.SeenAndRecord(ctx, digest, id); seen {
		a, err := s.Lookup(prior)
		if err == nil {
			metrics.RecordLogDeduplicated()
			return a, true, nil
		}
		if s.isPending(prior) {
			return nil, false, fmt.Errorf("%w: %s", ErrInProgress, prior)
		}
		// The earlier analysis was evicted; analyze the body again.
		s.uploads.Forget(ctx, digest)
		if prior, seen = s.uploads.SeenAndRecord(ctx, digest, id); seen {
			return nil, false, fmt.Errorf("%w: %s", ErrInProgress, prior)
		}
	}

	a, err := s.analyze(ctx, id, source.Reader{Label: name, R: bytes.NewReader(body)})
	if err != nil {
		s.uploads.Forget(ctx, digest)
		return nil, false, err
	}
	if _, err := s.Summaries(ctx, a, s.batching); err != nil {
		s.uploads.Forget(ctx, digest)
		return nil, false, err
	}
	return a, false, nil
}

// Lookup returns a previously analyzed log.
func (s *Service) Lookup(id string) (*Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.analyses[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLog, id)
}

// Graph selects the player identified by id and builds their timeline. The
// result is not stored; only Summaries writes to the store.
func (s *Service) Graph(ctx context.Context, a *Analysis, id selector.Identifier, batching int64) (*Graph, error) {
	ctx, span := tracing.Start(ctx, "service.graph")
	defer span.End()
	span.SetAttributes(attribute.String("player", id.String()), attribute.Int64("batching", batching))

	view, err := selector.Find(a.Filtered, id)
	if err != nil {
		metrics.RecordLookupMiss()
		span.SetStatus(codes.Error, "lookup")
		return nil, err
	}

	g, err := s.build(ctx, a.ID, view, batching)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build")
		return nil, err
	}
	return g, nil
}

func (s *Service) build(ctx context.Context, logID string, view model.FilteredEvents, batching int64) (*Graph, error) {
	start := time.Now()
	t, err := s.builder.Build(view, batching)
	if err != nil {
		if errors.Is(err, timeline.ErrDegenerateTimeline) {
			metrics.RecordTimelineDegenerate()
		}
		return nil, err
	}
	metrics.RecordTimelineBuilt(float64(time.Since(start).Microseconds())/1000, float64(t.Scale), len(t.Noteworthy))
	s.logger.Debug(ctx, "timeline built",
		logger.String("player", view.Player.StableID),
		logger.Int("groups", len(t.Groups)),
		logger.Int("noteworthy", len(t.Noteworthy)))
	return &Graph{LogID: logID, Timeline: t, Summary: repository.FromTimeline(logID, t)}, nil
}
