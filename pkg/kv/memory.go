package kv

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore implements Store with process-local state. It mirrors the
// RedisStore semantics, including atomic SetNX and IncrBy, which makes it a
// drop-in backend for tests and single-node deployments.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often expired entries are swept out.
// Set to 0 to disable the background sweep; expired entries are still
// invisible to readers either way.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates an in-memory store with an optional background sweep.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]memoryEntry),
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

func (ms *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, ok := ms.entries[key]
	if !ok || entry.expired(time.Now()) {
		delete(ms.entries, key)
		return nil, ErrNotFound
	}

	// Copy so callers cannot mutate stored state.
	val := make([]byte, len(entry.value))
	copy(val, entry.value)
	return val, nil
}

func (ms *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.entries[key] = newEntry(value, ttl, time.Now())
	return nil
}

func (ms *MemoryStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	if entry, ok := ms.entries[key]; ok && !entry.expired(now) {
		return false, nil
	}

	ms.entries[key] = newEntry(value, ttl, now)
	return true, nil
}

func (ms *MemoryStore) IncrBy(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	entry, ok := ms.entries[key]
	if !ok || entry.expired(now) {
		entry = newEntry([]byte("0"), ttl, now)
	}

	current, err := strconv.ParseInt(string(entry.value), 10, 64)
	if err != nil {
		return 0, errors.Join(ErrValueNotInteger, err)
	}

	current += delta
	entry.value = []byte(strconv.FormatInt(current, 10))
	ms.entries[key] = entry
	return current, nil
}

// Len reports the number of live entries. Intended for tests asserting that a
// code path never touched the store.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	n := 0
	for _, entry := range ms.entries {
		if !entry.expired(now) {
			n++
		}
	}
	return n
}

// Close stops the background sweep. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() {
		close(ms.stopCleanup)
	})
}

func newEntry(value []byte, ttl time.Duration, now time.Time) memoryEntry {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	return entry
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeExpired()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for key, entry := range ms.entries {
		if entry.expired(now) {
			delete(ms.entries, key)
		}
	}
}
