// Package sqlite implements the large durable backend on a SQLite
// database. It takes the payloads at or above the durable tier's size
// threshold and supports prefix enumeration for scoped clearing.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/apexview/apexview-go/cache"
)

const createTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	stored_at INTEGER NOT NULL,
	ttl_ns INTEGER NOT NULL
);
`

// Store is the large transactional backend.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and runs migration.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Name implements cache.Backend.
func (s *Store) Name() string { return "durable-large" }

// Get implements cache.Backend.
func (s *Store) Get(ctx context.Context, key string) (*cache.Entry, bool, error) {
	var (
		data     []byte
		storedAt int64
		ttl      int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT data, stored_at, ttl_ns FROM cache_entries WHERE key = ?`, key,
	).Scan(&data, &storedAt, &ttl)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: get %s: %w", key, err)
	}
	return &cache.Entry{
		Data:     data,
		StoredAt: time.Unix(0, storedAt),
		TTL:      time.Duration(ttl),
	}, true, nil
}

// Set implements cache.Backend. The upsert is a single atomic
// read-modify-write inside SQLite.
func (s *Store) Set(ctx context.Context, key string, e *cache.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, data, stored_at, ttl_ns) VALUES (?, ?, ?, ?)`,
		key, e.Data, e.StoredAt.UnixNano(), int64(e.TTL),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: set %s: %w", key, err)
	}
	return nil
}

// Remove implements cache.Backend.
func (s *Store) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlitestore: remove %s: %w", key, err)
	}
	return nil
}

// Clear implements cache.Backend. Keys never contain LIKE wildcards,
// so a plain prefix pattern is safe.
func (s *Store) Clear(ctx context.Context, prefix string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key LIKE ? || '%'`, prefix); err != nil {
		return fmt.Errorf("sqlitestore: clear %s: %w", prefix, err)
	}
	return nil
}

// Stats implements cache.Backend, aggregating in one query.
func (s *Store) Stats(ctx context.Context) (cache.BackendStats, error) {
	var (
		items  int64
		bytes  int64
		oldest sql.NullInt64
		newest sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(LENGTH(data)), 0), MIN(stored_at), MAX(stored_at) FROM cache_entries`,
	).Scan(&items, &bytes, &oldest, &newest)
	if err != nil {
		return cache.BackendStats{}, fmt.Errorf("sqlitestore: stats: %w", err)
	}
	out := cache.BackendStats{Items: items, Bytes: bytes}
	if oldest.Valid {
		out.Oldest = time.Unix(0, oldest.Int64)
	}
	if newest.Valid {
		out.Newest = time.Unix(0, newest.Int64)
	}
	return out, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
