package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresStoreFromDB(db), mock
}

func TestPostgresStore_Insert(t *testing.T) {
	ctx := context.Background()
	doc := json.RawMessage(`{"id":"f-1"}`)

	t.Run("inserts a document", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sqlInsert)).
			WithArgs("Freelancer", "f-1", `{"id":"f-1"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Insert(ctx, "Freelancer", "f-1", doc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violations to ErrConflict", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sqlInsert)).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		err := s.Insert(ctx, "Freelancer", "f-1", doc)
		assert.True(t, errors.Is(err, ErrConflict))
	})
}

func TestPostgresStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored document", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sqlGet)).
			WithArgs("Quiz", "q-1").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"q-1"}`)))

		doc, err := s.Get(ctx, "Quiz", "q-1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"q-1"}`, string(doc))
	})

	t.Run("maps missing rows to ErrNotFound", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sqlGet)).WillReturnError(sql.ErrNoRows)

		_, err := s.Get(ctx, "Quiz", "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestPostgresStore_Find(t *testing.T) {
	ctx := context.Background()
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT doc FROM entities WHERE kind = \$1 AND doc @> \$2::jsonb ORDER BY created_at DESC, id DESC LIMIT \$3`).
		WithArgs("QualityReport", `{"freelancer_id":"f-1"}`, 2).
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"id":"r-2"}`)).
			AddRow([]byte(`{"id":"r-1"}`)))

	docs, err := s.Find(ctx, "QualityReport", Query{
		Match: Criteria{"freelancer_id": "f-1"},
		Sort:  NewestFirst,
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.JSONEq(t, `{"id":"r-2"}`, string(docs[0]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PatchReplaceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("patch merges and returns the document", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sqlPatch)).
			WithArgs("Freelancer", "f-1", `{"status":"Approved"}`).
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"f-1","status":"Approved"}`)))

		doc, err := s.Patch(ctx, "Freelancer", "f-1", json.RawMessage(`{"status":"Approved"}`))
		require.NoError(t, err)
		assert.Contains(t, string(doc), "Approved")
	})

	t.Run("patch of a missing row is ErrNotFound", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(sqlPatch)).WillReturnError(sql.ErrNoRows)

		_, err := s.Patch(ctx, "Freelancer", "f-9", json.RawMessage(`{}`))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("replace with no affected rows is ErrNotFound", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sqlReplace)).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Replace(ctx, "Freelancer", "f-9", json.RawMessage(`{}`))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("delete removes one row", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(sqlDelete)).
			WithArgs("Freelancer", "f-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(ctx, "Freelancer", "f-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS entities`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
