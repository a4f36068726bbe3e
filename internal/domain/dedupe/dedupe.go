// Package dedupe tracks seen event ids for idempotent settlement
// ingestion.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event ids to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records
	// it if not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id from the seen set, allowing a retry. Used
	// when an event was recorded but could not be enqueued.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int
}

// ringDeduper is a bounded Deduper. When full, the oldest recorded id
// is evicted, so the guarantee is at-most-once within the window of
// the maxSize most recent ids. The map value is the id's ring slot:
// Unrecord must clear the slot as well, or a later re-record of the
// same id would leave a stale older slot whose eviction forgets the id
// while it is still inside the window.
type ringDeduper struct {
	mu      sync.Mutex
	seen    map[string]int
	ring    []string
	next    int
	maxSize int
}

// Option applies a configuration option to the deduper.
type Option func(*ringDeduper)

// WithMaxSize bounds the number of remembered ids.
func WithMaxSize(n int) Option {
	return func(d *ringDeduper) {
		if n > 0 {
			d.maxSize = n
		}
	}
}

const defaultMaxSize = 50000

// New creates a bounded in-memory deduper.
func New(opts ...Option) Deduper {
	d := &ringDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int, d.maxSize)
	d.ring = make([]string, d.maxSize)
	return d
}

func (d *ringDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	// Evict the slot's current occupant only if it still points here:
	// unrecorded slots hold an id the map no longer owns.
	if idx, ok := d.seen[d.ring[d.next]]; ok && idx == d.next {
		delete(d.seen, d.ring[d.next])
	}
	d.ring[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *ringDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.seen[id]
	if !ok {
		return
	}
	// Clear the slot so a re-record of the same id occupies exactly
	// one slot in the window.
	d.ring[idx] = ""
	delete(d.seen, id)
}

func (d *ringDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
