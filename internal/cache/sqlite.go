package cache

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/sqlitedb"
)

// SQLiteStore implements Store on a cache_slots table.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
	mu     sync.RWMutex
	closed bool
}

// OpenSQLiteStore opens its own database at path. Use ":memory:" for tests.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "failed to open cache database").
			WithContext("path", path).
			Build()
	}
	s, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

// NewSQLiteStore uses an already opened database. Close leaves db open.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initialize(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "failed to initialize cache schema").Build()
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_slots (
		kind TEXT PRIMARY KEY,
		id INTEGER NOT NULL DEFAULT 0,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Write upserts the kind's single row.
func (s *SQLiteStore) Write(ctx context.Context, kind recipes.Kind, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_slots (kind, id, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET id = excluded.id, payload = excluded.payload, updated_at = excluded.updated_at`,
		kind.String(), SlotID, payload, time.Now().UnixMilli(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryCache, "failed to write cache slot").
			WithContext("kind", kind.String()).
			Retryable().
			Build()
	}
	return nil
}

// ReadAll returns the kind's row, if any.
func (s *SQLiteStore) ReadAll(ctx context.Context, kind recipes.Kind) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT payload FROM cache_slots WHERE kind = ? ORDER BY id",
		kind.String(),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "failed to read cache slot").
			WithContext("kind", kind.String()).
			Retryable().
			Build()
	}
	defer func() { _ = rows.Close() }()

	out := [][]byte{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.WrapError(err, errors.CategoryCache, "failed to scan cache slot").Build()
		}
		out = append(out, payload)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryCache, "failed to iterate cache slot").Build()
	}
	return out, nil
}

// Close marks the store closed and closes the database if the store opened it.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}
