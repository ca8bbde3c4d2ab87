package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	uniqueViolation = "23505"

	defaultMaxOpen      = 20
	defaultMaxIdle      = 5
	defaultConnLifetime = 5 * time.Minute
)

const (
	sqlInsert  = `INSERT INTO entities (kind, id, doc) VALUES ($1, $2, $3)`
	sqlGet     = `SELECT doc FROM entities WHERE kind = $1 AND id = $2`
	sqlFind    = `SELECT doc FROM entities WHERE kind = $1 AND doc @> $2::jsonb ORDER BY created_at %s, id %s`
	sqlPatch   = `UPDATE entities SET doc = doc || $3::jsonb, updated_at = now() WHERE kind = $1 AND id = $2 RETURNING doc`
	sqlReplace = `UPDATE entities SET doc = $3::jsonb, updated_at = now() WHERE kind = $1 AND id = $2`
	sqlDelete  = `DELETE FROM entities WHERE kind = $1 AND id = $2`
)

// PostgresStore keeps every entity kind in one JSONB table.
type PostgresStore struct {
	db *sql.DB

	maxOpen      int
	maxIdle      int
	connLifetime time.Duration
}

// NewPostgresStore opens a lib/pq connection pool.
func NewPostgresStore(dsn string, opts ...Option) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	s := NewPostgresStoreFromDB(db, opts...)
	db.SetMaxOpenConns(s.maxOpen)
	db.SetMaxIdleConns(s.maxIdle)
	db.SetConnMaxLifetime(s.connLifetime)
	db.SetConnMaxIdleTime(s.connLifetime)
	return s, nil
}

// NewPostgresStoreFromDB wraps an existing handle.
func NewPostgresStoreFromDB(db *sql.DB, opts ...Option) *PostgresStore {
	s := &PostgresStore{
		db:           db,
		maxOpen:      defaultMaxOpen,
		maxIdle:      defaultMaxIdle,
		connLifetime: defaultConnLifetime,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate applies the embedded schema files in name order.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := s.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// Insert implements DocumentStore.
func (s *PostgresStore) Insert(ctx context.Context, kind, id string, doc json.RawMessage) error {
	if _, err := s.db.ExecContext(ctx, sqlInsert, kind, id, string(doc)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Get implements DocumentStore.
func (s *PostgresStore) Get(ctx context.Context, kind, id string) (json.RawMessage, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, sqlGet, kind, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Find implements DocumentStore using JSONB containment.
func (s *PostgresStore) Find(ctx context.Context, kind string, q Query) ([]json.RawMessage, error) {
	match := q.Match
	if match == nil {
		match = Criteria{}
	}
	filter, err := json.Marshal(match)
	if err != nil {
		return nil, fmt.Errorf("encode criteria: %w", err)
	}

	dir := "ASC"
	if q.Sort == NewestFirst {
		dir = "DESC"
	}
	query := fmt.Sprintf(sqlFind, dir, dir)
	args := []any{kind, string(filter)}
	if q.Limit > 0 {
		query += " LIMIT $3"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Patch implements DocumentStore with JSONB concatenation.
func (s *PostgresStore) Patch(ctx context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, sqlPatch, kind, id, string(patch)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Replace implements DocumentStore.
func (s *PostgresStore) Replace(ctx context.Context, kind, id string, doc json.RawMessage) error {
	res, err := s.db.ExecContext(ctx, sqlReplace, kind, id, string(doc))
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete implements DocumentStore.
func (s *PostgresStore) Delete(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx, sqlDelete, kind, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Ping implements DocumentStore.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements DocumentStore.
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
