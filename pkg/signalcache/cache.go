package signalcache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrymomot/signalkit/pkg/kv"
)

const (
	// DefaultTTL is how long a computed payload stays in the store.
	DefaultTTL = 5 * time.Minute
	// DefaultBucketWidth matches DefaultTTL so a bucket never outlives its
	// own cache entry.
	DefaultBucketWidth = 5 * time.Minute
)

const keyPrefix = "signals:cache:"

// ComputeFunc produces the payload on a cache miss. It must be deterministic
// within a time bucket and side-effect free; the cache treats it as a black
// box and may invoke it more than once under concurrent misses.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Cache memoizes computations in the shared store.
type Cache struct {
	store       kv.Store
	ttl         time.Duration
	bucketWidth time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry TTL. Values <= 0 are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithBucketWidth overrides the time-bucket width. Values <= 0 are ignored.
func WithBucketWidth(width time.Duration) Option {
	return func(c *Cache) {
		if width > 0 {
			c.bucketWidth = width
		}
	}
}

// New creates a Cache backed by the given store.
// Panics if store is nil to fail fast during initialization.
func New(store kv.Store, opts ...Option) *Cache {
	if store == nil {
		panic("signalcache: store is required")
	}

	c := &Cache{
		store:       store,
		ttl:         DefaultTTL,
		bucketWidth: DefaultBucketWidth,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetOrCompute returns the payload cached for (key, bucket-of-now), computing
// and storing it on a miss. A store failure on either the read or the write
// fails the call; it is never downgraded to a miss, so a flapping store
// produces errors instead of a silent recompute storm.
func (c *Cache) GetOrCompute(ctx context.Context, key string, now time.Time, compute ComputeFunc) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if compute == nil {
		return nil, ErrNilComputeFunc
	}

	storeKey := c.storeKey(key, now)

	payload, err := c.store.Get(ctx, storeKey)
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return nil, errors.Join(ErrLookupFailed, err)
	}

	payload, err = compute(ctx)
	if err != nil {
		return nil, errors.Join(ErrComputeFailed, err)
	}

	if err := c.store.Set(ctx, storeKey, payload, c.ttl); err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}

	return payload, nil
}

// Bucket returns the time bucket the given instant falls into.
func (c *Cache) Bucket(now time.Time) time.Time {
	return now.UTC().Truncate(c.bucketWidth)
}

func (c *Cache) storeKey(key string, now time.Time) string {
	return keyPrefix + key + ":" + strconv.FormatInt(c.Bucket(now).Unix(), 10)
}
