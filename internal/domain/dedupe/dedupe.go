// Package dedupe tracks transport message ids so the webhook can drop
// redeliveries before they reach the confirmation workflow.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen message ids to ensure at-most-once handling.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen list, allowing it to be retried.
	// Use this when a message was marked as seen but could not be queued
	// (e.g. backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// entry is a single element of the eviction list.
type entry struct {
	id   string
	next *entry
}

func (e *entry) reset() {
	e.id = ""
	e.next = nil
}

// inMemoryDeduper implements Deduper with a map plus a linked list for
// LIFO eviction once maxSize is exceeded. maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*entry // id -> list entry (nil values in unbounded mode)
	head    *entry            // most recently recorded id
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// Default bound on remembered message ids.
const defaultMaxSize = 50_000

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*entry)
	if d.maxSize > 0 {
		d.pool = sync.Pool{
			New: func() interface{} { return &entry{} },
		}
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}

		e := d.pool.Get().(*entry)
		e.id = id
		e.next = d.head
		d.head = e
		d.seen[id] = e
	} else {
		d.seen[id] = nil
	}
	d.size.Add(1)
	return false
}

// Unrecord removes an id from the seen list, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, exists := d.seen[id]
	if !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	if d.maxSize <= 0 {
		return
	}

	// Unlink from the eviction list.
	if d.head == e {
		d.head = e.next
	} else {
		cur := d.head
		for cur != nil && cur.next != e {
			cur = cur.next
		}
		if cur != nil {
			cur.next = e.next
		}
	}
	e.reset()
	d.pool.Put(e)
}

// evictOldest drops the tail of the list. Caller holds d.mu.
func (d *inMemoryDeduper) evictOldest() {
	if d.head == nil {
		return
	}

	if d.head.next == nil {
		delete(d.seen, d.head.id)
		d.head.reset()
		d.pool.Put(d.head)
		d.head = nil
		d.size.Add(-1)
		return
	}

	var prev *entry
	cur := d.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(d.seen, cur.id)
	cur.reset()
	d.pool.Put(cur)
	d.size.Add(-1)
}

// Size returns the current number of remembered ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
