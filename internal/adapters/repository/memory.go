package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/loggraph/pkg/metrics"
)

// Treap ordered by (TotalScore desc, StableID asc), so in-order traversal
// yields the leaderboard from best to worst.
type node struct {
	id    string
	score float64
	prio  uint64
	left  *node
	right *node
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

func insert(n *node, id string, score float64, prio uint64) *node {
	if n == nil {
		return &node{id: id, score: score, prio: prio}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func deleteNode(n *node, id string, score float64) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.id == id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	case less(score, id, n.score, n.id):
		n.left = deleteNode(n.left, id, score)
	default:
		n.right = deleteNode(n.right, id, score)
	}
	return n
}

func collectTopN(n *node, limit int, byID map[string]Summary, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byID, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Summary: byID[n.id]})
	}
	collectTopN(n.right, limit, byID, out)
}

type board struct {
	root *node
	byID map[string]Summary
}

// MemoryStore keeps one treap per log.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]*board
	closed bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]*board)}
}

func (s *MemoryStore) Put(_ context.Context, sum Summary) error {
	start := time.Now()
	defer observe("put", start)

	if err := sum.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	b, ok := s.boards[sum.LogID]
	if !ok {
		b = &board{byID: make(map[string]Summary)}
		s.boards[sum.LogID] = b
	}
	if old, ok := b.byID[sum.StableID]; ok {
		b.root = deleteNode(b.root, old.StableID, old.TotalScore)
	}
	b.byID[sum.StableID] = sum
	b.root = insert(b.root, sum.StableID, sum.TotalScore, rand.Uint64())

	metrics.RecordRepositoryWrite()
	metrics.UpdateRepositorySummaries(len(b.byID))
	return nil
}

func (s *MemoryStore) Get(_ context.Context, logID, stableID string) (Summary, error) {
	start := time.Now()
	defer observe("get", start)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.boards[logID]; ok {
		if sum, ok := b.byID[stableID]; ok {
			return sum, nil
		}
	}
	metrics.RecordErrorByComponent("repository", "not_found")
	return Summary{}, ErrNotFound
}

func (s *MemoryStore) TopN(_ context.Context, logID string, n int) ([]Entry, error) {
	start := time.Now()
	defer observe("top_n", start)

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[logID]
	if !ok {
		return []Entry{}, nil
	}
	out := make([]Entry, 0, min(n, len(b.byID)))
	collectTopN(b.root, n, b.byID, &out)
	assignRanks(out)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context, logID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.boards[logID]; ok {
		return len(b.byID), nil
	}
	return 0, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func observe(op string, start time.Time) {
	metrics.RecordRepositoryLatency(op, float64(time.Since(start).Microseconds())/1000)
}
