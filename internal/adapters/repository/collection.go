package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/linguist/pkg/metrics"
)

// Collection is a typed view over one kind of document.
type Collection[T Entity] struct {
	kind  string
	store DocumentStore
	hub   *Hub
}

// NewCollection binds kind to store. A nil hub disables subscriptions.
func NewCollection[T Entity](kind string, store DocumentStore, hub *Hub) *Collection[T] {
	if hub == nil {
		hub = NewHub()
	}
	return &Collection[T]{kind: kind, store: store, hub: hub}
}

// Kind returns the document kind.
func (c *Collection[T]) Kind() string { return c.kind }

// List returns every entity of the kind.
func (c *Collection[T]) List(ctx context.Context, sort Sort) ([]T, error) {
	return c.Find(ctx, Query{Sort: sort})
}

// Filter returns entities whose fields match criteria.
func (c *Collection[T]) Filter(ctx context.Context, criteria Criteria) ([]T, error) {
	return c.Find(ctx, Query{Match: criteria})
}

// Find runs an arbitrary query.
func (c *Collection[T]) Find(ctx context.Context, q Query) (out []T, err error) {
	defer c.observe("find", time.Now(), &err)

	docs, err := c.store.Find(ctx, c.kind, q)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.kind, err)
	}
	out = make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err = json.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.kind, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Get loads one entity.
func (c *Collection[T]) Get(ctx context.Context, id string) (v T, err error) {
	defer c.observe("get", time.Now(), &err)

	d, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		return v, fmt.Errorf("get %s %s: %w", c.kind, id, err)
	}
	if err = json.Unmarshal(d, &v); err != nil {
		return v, fmt.Errorf("decode %s %s: %w", c.kind, id, err)
	}
	return v, nil
}

// Create inserts a new entity. Its id must already be set.
func (c *Collection[T]) Create(ctx context.Context, v *T) (err error) {
	defer c.observe("create", time.Now(), &err)

	id := (*v).EntityID()
	if id == "" {
		return ErrInvalidID
	}
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	if err = c.store.Insert(ctx, c.kind, id, d); err != nil {
		return fmt.Errorf("create %s %s: %w", c.kind, id, err)
	}
	c.hub.Publish(Change{Kind: c.kind, ID: id, Op: OpCreate})
	return nil
}

// Update merges patch into the stored entity and returns the result.
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]any) (v T, err error) {
	defer c.observe("update", time.Now(), &err)

	p, err := json.Marshal(patch)
	if err != nil {
		return v, fmt.Errorf("encode patch %s: %w", c.kind, err)
	}
	d, err := c.store.Patch(ctx, c.kind, id, p)
	if err != nil {
		return v, fmt.Errorf("update %s %s: %w", c.kind, id, err)
	}
	if err = json.Unmarshal(d, &v); err != nil {
		return v, fmt.Errorf("decode %s %s: %w", c.kind, id, err)
	}
	c.hub.Publish(Change{Kind: c.kind, ID: id, Op: OpUpdate})
	return v, nil
}

// Save replaces the whole stored entity. Last write wins.
func (c *Collection[T]) Save(ctx context.Context, v T) (err error) {
	defer c.observe("save", time.Now(), &err)

	id := v.EntityID()
	if id == "" {
		return ErrInvalidID
	}
	d, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	if err = c.store.Replace(ctx, c.kind, id, d); err != nil {
		return fmt.Errorf("save %s %s: %w", c.kind, id, err)
	}
	c.hub.Publish(Change{Kind: c.kind, ID: id, Op: OpUpdate})
	return nil
}

// Delete removes an entity.
func (c *Collection[T]) Delete(ctx context.Context, id string) (err error) {
	defer c.observe("delete", time.Now(), &err)

	if err = c.store.Delete(ctx, c.kind, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", c.kind, id, err)
	}
	c.hub.Publish(Change{Kind: c.kind, ID: id, Op: OpDelete})
	return nil
}

// Subscribe registers fn for writes to this kind.
func (c *Collection[T]) Subscribe(fn func(Change)) func() {
	return c.hub.Subscribe(c.kind, fn)
}

func (c *Collection[T]) observe(op string, start time.Time, err *error) {
	metrics.RecordStoreOperation(c.kind, op, *err, float64(time.Since(start).Milliseconds()))
}
