// Package dedupe tracks content already analyzed so repeated uploads and
// repeated batch identifiers are handled once.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
)

// Deduper records keys with the value they were first seen with.
type Deduper interface {
	// SeenAndRecord atomically checks key. When key is new it stores value and
	// returns ("", false); otherwise it returns the stored value and true.
	SeenAndRecord(ctx context.Context, key, value string) (string, bool)

	// Forget removes key, allowing it to be recorded again. Used when the work
	// a key guarded failed after it was recorded.
	Forget(ctx context.Context, key string)

	Size() int64
}

// Digest returns the hex SHA-256 of data, the key used for uploaded logs.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type node struct {
	key, value string
	prev, next *node
}

func (n *node) reset() {
	*n = node{}
}

// inMemoryDeduper keeps keys in a map plus a recency list. In bounded mode the
// oldest key is evicted once maxSize is reached.
type inMemoryDeduper struct {
	mu         sync.Mutex
	seen       map[string]*node
	head, tail *node // head is newest
	maxSize    int   // <= 0 means unbounded
	size       atomic.Int64
	nodePool   sync.Pool
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 10000,
		seen:    make(map[string]*node),
		nodePool: sync.Pool{
			New: func() any { return &node{} },
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key, value string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.seen[key]; ok {
		return n.value, true
	}

	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}

	n := d.nodePool.Get().(*node)
	n.key, n.value = key, value
	d.pushFront(n)
	d.seen[key] = n
	d.size.Add(1)
	return "", false
}

func (d *inMemoryDeduper) Forget(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.seen[key]
	if !ok {
		return
	}
	d.remove(n)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Must be called with d.mu held.
func (d *inMemoryDeduper) pushFront(n *node) {
	n.next = d.head
	if d.head != nil {
		d.head.prev = n
	}
	d.head = n
	if d.tail == nil {
		d.tail = n
	}
}

// Must be called with d.mu held.
func (d *inMemoryDeduper) remove(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		d.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		d.tail = n.prev
	}
	delete(d.seen, n.key)
	n.reset()
	d.nodePool.Put(n)
	d.size.Add(-1)
}

// Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if d.tail != nil {
		d.remove(d.tail)
	}
}
