package cache

import (
	"context"
	"database/sql"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// Open builds the configured backend. The SQLite backend uses db, which the
// caller keeps ownership of.
func Open(ctx context.Context, cfg config.CacheConfig, db *sql.DB) (Store, error) {
	switch cfg.Backend {
	case config.CacheBackendSQLite, "":
		if db == nil {
			return nil, errors.ConfigError("sqlite cache backend requires a database").Build()
		}
		s, err := NewSQLiteStore(db)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CacheBackendNATS:
		s, err := OpenNATSStore(ctx, cfg.NATSURL, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.CacheBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.ConfigError("unknown cache backend").
			WithContext("backend", string(cfg.Backend)).
			Build()
	}
}
