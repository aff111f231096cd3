package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// SQLiteStore implements Store on the favorite_recipes table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates the table if needed. The caller owns db.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	schema := `
	CREATE TABLE IF NOT EXISTS favorite_recipes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		result BLOB NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFavorites, "failed to initialize favorites schema").Build()
	}
	return s, nil
}

// Insert adds f, replacing any row with the same non-zero ID.
func (s *SQLiteStore) Insert(ctx context.Context, f Favorite) (Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(f.Result)
	if err != nil {
		return Favorite{}, errors.WrapError(err, errors.CategoryFavorites, "failed to encode favorite").Build()
	}

	var id any
	if f.ID != 0 {
		id = f.ID
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO favorite_recipes (id, result) VALUES (?, ?)",
		id, payload,
	)
	if err != nil {
		return Favorite{}, errors.WrapError(err, errors.CategoryFavorites, "failed to insert favorite").Build()
	}
	if f.ID == 0 {
		f.ID, err = res.LastInsertId()
		if err != nil {
			return Favorite{}, errors.WrapError(err, errors.CategoryFavorites, "failed to read favorite id").Build()
		}
	}
	return f, nil
}

// Delete removes one favorite.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM favorite_recipes WHERE id = ?", id)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFavorites, "failed to delete favorite").
			WithContext("id", id).
			Build()
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound.WithContext("id", id)
	}
	return nil
}

// DeleteAll empties the table.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM favorite_recipes"); err != nil {
		return errors.WrapError(err, errors.CategoryFavorites, "failed to delete favorites").Build()
	}
	return nil
}

// List returns every favorite by ascending ID.
func (s *SQLiteStore) List(ctx context.Context) ([]Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, result FROM favorite_recipes ORDER BY id ASC")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFavorites, "failed to query favorites").Build()
	}
	defer func() { _ = rows.Close() }()

	out := []Favorite{}
	for rows.Next() {
		var f Favorite
		var payload []byte
		if err := rows.Scan(&f.ID, &payload); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFavorites, "failed to scan favorite").Build()
		}
		if err := json.Unmarshal(payload, &f.Result); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFavorites, "failed to decode favorite").
				WithContext("id", f.ID).
				Build()
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFavorites, "failed to iterate favorites").Build()
	}
	return out, nil
}

// Close is a no-op; the database belongs to the caller.
func (s *SQLiteStore) Close() error { return nil }
