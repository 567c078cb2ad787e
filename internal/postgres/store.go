package postgres

import (
	"context"
	"database/sql"
	"errors"

	ierr "github.com/nexusai/billing/internal/errors"
	"github.com/nexusai/billing/internal/store"
)

var _ store.Backend = (*DocumentStore)(nil)

const (
	queryGetDocument = `SELECT id, data FROM documents WHERE collection = $1 AND id = $2`

	queryListDocuments = `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`

	queryUpsertDocument = `INSERT INTO documents (collection, id, data, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`

	queryDeleteCollection = `DELETE FROM documents WHERE collection = $1`
)

// Schema creates the single table every collection lives in
const Schema = `CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    data JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (collection, id)
)`

type documentRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

// DocumentStore implements store.Backend on a postgres jsonb table
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Migrate creates the documents table if it does not exist
func (s *DocumentStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create documents table").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var row documentRow
	err := s.db.GetQuerier(ctx).GetContext(ctx, &row, queryGetDocument, collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(collection, id)
	}
	if err != nil {
		return nil, wrap(err, "get", collection)
	}
	return row.Data, nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([][]byte, error) {
	var rows []documentRow
	if err := s.db.GetQuerier(ctx).SelectContext(ctx, &rows, queryListDocuments, collection); err != nil {
		return nil, wrap(err, "list", collection)
	}
	out := make([][]byte, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Data)
	}
	return out, nil
}

func (s *DocumentStore) Put(ctx context.Context, collection, id string, data []byte) error {
	if _, err := s.db.GetQuerier(ctx).ExecContext(ctx, queryUpsertDocument, collection, id, data); err != nil {
		return wrap(err, "put", collection)
	}
	return nil
}

func (s *DocumentStore) ReplaceAll(ctx context.Context, collection string, docs map[string][]byte) error {
	return s.db.WithTx(ctx, func(ctx context.Context) error {
		q := s.db.GetQuerier(ctx)
		if _, err := q.ExecContext(ctx, queryDeleteCollection, collection); err != nil {
			return wrap(err, "replace", collection)
		}
		for id, data := range docs {
			if _, err := q.ExecContext(ctx, queryUpsertDocument, collection, id, data); err != nil {
				return wrap(err, "replace", collection)
			}
		}
		return nil
	})
}

func (s *DocumentStore) Commit(ctx context.Context, writes []store.Write) error {
	return s.db.WithTx(ctx, func(ctx context.Context) error {
		q := s.db.GetQuerier(ctx)
		for _, w := range writes {
			if _, err := q.ExecContext(ctx, queryUpsertDocument, w.Collection, w.ID, w.Data); err != nil {
				return wrap(err, "commit", w.Collection)
			}
		}
		return nil
	})
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}

func wrap(err error, op, collection string) error {
	return ierr.WithError(err).
		WithHintf("Failed to %s %s", op, collection).
		WithReportableDetails(map[string]any{"collection": collection}).
		Mark(ierr.ErrDatabase)
}
