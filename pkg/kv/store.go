package kv

import (
	"context"
	"time"
)

// Store is the contract every signalkit component coordinates through.
// Implementations must make SetNX and IncrBy atomic with respect to
// concurrent callers; Get and Set only need per-key consistency.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound if the key
	// does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A zero TTL means the
	// key does not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX stores value under key only if the key does not already exist.
	// It reports whether the write happened. The check and the write are a
	// single atomic step.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// IncrBy atomically adds delta to the integer stored under key,
	// creating it at zero first if absent, and returns the post-increment
	// value. The TTL is applied only when the key carries none yet, so the
	// expiry of a counting window is fixed by its first increment.
	IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)
}
