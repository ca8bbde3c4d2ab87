package repository

import "sync"

// Op is the kind of write that produced a Change.
type Op string

// Write operations.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change describes one committed write.
type Change struct {
	Kind string
	ID   string
	Op   Op
}

// Hub fans out changes to subscribers of a kind. Handlers run on the
// writer's goroutine and must not block.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(Change)
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func(Change))}
}

// Subscribe registers fn for changes of kind and returns the unsubscribe func.
func (h *Hub) Subscribe(kind string, fn func(Change)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[kind] == nil {
		h.subs[kind] = make(map[int]func(Change))
	}
	h.subs[kind][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[kind], id)
		})
	}
}

// Publish delivers c to every subscriber of c.Kind.
func (h *Hub) Publish(c Change) {
	h.mu.RLock()
	fns := make([]func(Change), 0, len(h.subs[c.Kind]))
	for _, fn := range h.subs[c.Kind] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(c)
	}
}
