// Package dedupe tracks idempotency keys so duplicate jobs and repeated
// attempt submissions are processed at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// Deduper records seen keys and, optionally, the result they produced.
type Deduper interface {
	// SeenAndRecord atomically reports whether key was seen and records it
	// if not.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so a failed operation can be retried.
	Unrecord(ctx context.Context, key string)

	// Remember attaches a result (e.g. the created attempt id) to key.
	Remember(ctx context.Context, key, result string)

	// Lookup returns the result remembered for key.
	Lookup(ctx context.Context, key string) (string, bool)

	Size() int64
}

type entry struct {
	key    string
	result string
}

// inMemoryDeduper keeps keys in insertion order and evicts the oldest
// once maxSize is reached. maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		if oldest := d.order.Back(); oldest != nil {
			d.order.Remove(oldest)
			delete(d.seen, oldest.Value.(*entry).key)
		}
	}
	d.seen[key] = d.order.PushFront(&entry{key: key})
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

func (d *inMemoryDeduper) Remember(_ context.Context, key, result string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[key]; ok {
		el.Value.(*entry).result = result
	}
}

func (d *inMemoryDeduper) Lookup(_ context.Context, key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	el, ok := d.seen[key]
	if !ok {
		return "", false
	}
	r := el.Value.(*entry).result
	return r, r != ""
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
