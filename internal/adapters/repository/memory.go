package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

type memDoc struct {
	data json.RawMessage
	seq  uint64
}

// MemoryStore keeps documents in process memory. It is the default backend.
type MemoryStore struct {
	mu     sync.RWMutex
	kinds  map[string]map[string]*memDoc
	seq    uint64
	closed bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kinds: make(map[string]map[string]*memDoc)}
}

// Insert implements DocumentStore.
func (m *MemoryStore) Insert(_ context.Context, kind, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	docs := m.kinds[kind]
	if docs == nil {
		docs = make(map[string]*memDoc)
		m.kinds[kind] = docs
	}
	if _, ok := docs[id]; ok {
		return ErrConflict
	}
	m.seq++
	docs[id] = &memDoc{data: clone(doc), seq: m.seq}
	return nil
}

// Get implements DocumentStore.
func (m *MemoryStore) Get(_ context.Context, kind, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	d, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d.data), nil
}

// Find implements DocumentStore.
func (m *MemoryStore) Find(_ context.Context, kind string, q Query) ([]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	want, err := normalize(q.Match)
	if err != nil {
		return nil, err
	}

	hits := make([]*memDoc, 0, len(m.kinds[kind]))
	for _, d := range m.kinds[kind] {
		ok, err := contains(d.data, want)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, d)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if q.Sort == NewestFirst {
			return hits[i].seq > hits[j].seq
		}
		return hits[i].seq < hits[j].seq
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]json.RawMessage, len(hits))
	for i, d := range hits {
		out[i] = clone(d.data)
	}
	return out, nil
}

// Patch implements DocumentStore with top-level merge semantics.
func (m *MemoryStore) Patch(_ context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	d, ok := m.kinds[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	var base, delta map[string]json.RawMessage
	if err := json.Unmarshal(d.data, &base); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	if err := json.Unmarshal(patch, &delta); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	if base == nil {
		base = make(map[string]json.RawMessage, len(delta))
	}
	for k, v := range delta {
		base[k] = v
	}
	merged, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode merged document: %w", err)
	}
	d.data = merged
	return clone(merged), nil
}

// Replace implements DocumentStore.
func (m *MemoryStore) Replace(_ context.Context, kind, id string, doc json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	d, ok := m.kinds[kind][id]
	if !ok {
		return ErrNotFound
	}
	d.data = clone(doc)
	return nil
}

// Delete implements DocumentStore.
func (m *MemoryStore) Delete(_ context.Context, kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.kinds[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.kinds[kind], id)
	return nil
}

// Count returns the number of documents of kind.
func (m *MemoryStore) Count(kind string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.kinds[kind])
}

// Ping implements DocumentStore.
func (m *MemoryStore) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close implements DocumentStore.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func clone(b json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), b...)
}

// normalize round-trips criteria through JSON so values compare the way
// they are stored.
func normalize(c Criteria) (map[string]any, error) {
	if len(c) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode criteria: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	return out, nil
}

func contains(doc json.RawMessage, want map[string]any) (bool, error) {
	if len(want) == 0 {
		return true, nil
	}
	var have map[string]any
	if err := json.Unmarshal(doc, &have); err != nil {
		return false, fmt.Errorf("decode stored document: %w", err)
	}
	for k, v := range want {
		if !reflect.DeepEqual(have[k], v) {
			return false, nil
		}
	}
	return true, nil
}
