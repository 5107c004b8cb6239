package redecred

import "context"

// CacheStore holds memoized lookup results for the lifetime of a session.
type CacheStore interface {
	// Get returns the value stored under key. ok is false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Purge removes every entry and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}
