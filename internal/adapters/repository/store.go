// Package repository is the generic entity store: JSON documents keyed by
// (kind, id) behind a DocumentStore, with typed Collections on top and a
// change hub for subscriptions.
package repository

import (
	"context"
	"encoding/json"
)

// Entity is anything a Collection can persist.
type Entity interface {
	EntityID() string
}

// Criteria is a top-level field match, e.g. {"freelancer_id": "f-1"}.
// Semantics follow JSONB containment for scalar values.
type Criteria map[string]any

// Sort orders results by creation time.
type Sort int

// Sort orders.
const (
	OldestFirst Sort = iota
	NewestFirst
)

// Query selects documents of one kind.
type Query struct {
	Match Criteria
	Sort  Sort
	Limit int // 0 means no limit
}

// DocumentStore persists raw JSON documents.
type DocumentStore interface {
	Insert(ctx context.Context, kind, id string, doc json.RawMessage) error
	Get(ctx context.Context, kind, id string) (json.RawMessage, error)
	Find(ctx context.Context, kind string, q Query) ([]json.RawMessage, error)
	// Patch merges top-level fields of patch into the stored document and
	// returns the result.
	Patch(ctx context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error)
	Replace(ctx context.Context, kind, id string, doc json.RawMessage) error
	Delete(ctx context.Context, kind, id string) error
	Ping(ctx context.Context) error
	Close() error
}
