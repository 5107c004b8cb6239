package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/redecred/redecred"
)

// Compile-time interface verification.
var _ redecred.CacheStore = (*CacheStore)(nil)

// CacheStore implements redecred.CacheStore using SQLite.
type CacheStore struct {
	db *DB

	// Session tags every entry written by this store.
	Session string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB, session string) *CacheStore {
	return &CacheStore{db: db, Session: session, Now: time.Now}
}

// Get returns the value stored under key.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM cache_entries WHERE key = ?
	`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous entry.
func (s *CacheStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return redecred.Errorf(redecred.EINVALID, "cache key required")
	}
	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, session, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			session = excluded.session,
			created_at = excluded.created_at
	`, key, value, s.Session, s.now().UTC().Format(time.RFC3339))

	return err
}

// Purge removes every entry.
func (s *CacheStore) Purge(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CacheStats summarizes the content of a cache.
type CacheStats struct {
	Entries int       `json:"entries"`
	Bytes   int64     `json:"bytes"`
	Oldest  time.Time `json:"oldest,omitzero"`
}

// Stats reports how many entries the cache holds and when the oldest was
// written.
func (s *CacheStore) Stats(ctx context.Context) (*CacheStats, error) {
	var stats CacheStats
	var oldest sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0), MIN(created_at)
		FROM cache_entries
	`).Scan(&stats.Entries, &stats.Bytes, &oldest)
	if err != nil {
		return nil, err
	}

	if oldest.Valid {
		t, err := parseRFC3339(oldest.String, "created_at")
		if err != nil {
			return nil, err
		}
		stats.Oldest = t
	}
	return &stats, nil
}

func (s *CacheStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
