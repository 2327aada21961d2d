package kv_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signalkit/pkg/kv"
)

func newTestStore(t *testing.T) *kv.MemoryStore {
	t.Helper()
	store := kv.NewMemoryStore(kv.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	return store
}

func TestMemoryStore_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("roundtrip", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "greeting", []byte("hello"), 0))

		val, err := store.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), val)
	})

	t.Run("expired key behaves as missing", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "ephemeral", []byte("x"), 10*time.Millisecond))

		time.Sleep(25 * time.Millisecond)

		_, err := store.Get(ctx, "ephemeral")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, kv.ErrEmptyKey)
		assert.ErrorIs(t, store.Set(ctx, "", nil, 0), kv.ErrEmptyKey)
	})

	t.Run("stored value is copied", func(t *testing.T) {
		src := []byte("immutable")
		require.NoError(t, store.Set(ctx, "copy", src, 0))
		src[0] = 'X'

		val, err := store.Get(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, []byte("immutable"), val)
	})
}

func TestMemoryStore_SetNX(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	t.Run("first write wins", func(t *testing.T) {
		created, err := store.SetNX(ctx, "once", []byte("a"), 0)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = store.SetNX(ctx, "once", []byte("b"), 0)
		require.NoError(t, err)
		assert.False(t, created)

		val, err := store.Get(ctx, "once")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), val)
	})

	t.Run("expired key can be recreated", func(t *testing.T) {
		created, err := store.SetNX(ctx, "short", []byte("a"), 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, created)

		time.Sleep(25 * time.Millisecond)

		created, err = store.SetNX(ctx, "short", []byte("b"), 0)
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("exactly one concurrent winner", func(t *testing.T) {
		const goroutines = 50

		var wg sync.WaitGroup
		var winners atomic.Int64
		wg.Add(goroutines)

		for range goroutines {
			go func() {
				defer wg.Done()
				created, err := store.SetNX(ctx, "contested", []byte("1"), 0)
				if assert.NoError(t, err) && created {
					winners.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int64(1), winners.Load())
	})
}

func TestMemoryStore_IncrBy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	t.Run("absent key starts at zero", func(t *testing.T) {
		n, err := store.IncrBy(ctx, "counter", 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = store.IncrBy(ctx, "counter", 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("non-integer value rejected", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "text", []byte("abc"), 0))

		_, err := store.IncrBy(ctx, "text", 1, 0)
		assert.ErrorIs(t, err, kv.ErrValueNotInteger)
	})

	t.Run("window expiry resets the count", func(t *testing.T) {
		n, err := store.IncrBy(ctx, "window", 1, 10*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		time.Sleep(25 * time.Millisecond)

		n, err = store.IncrBy(ctx, "window", 1, 10*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("concurrent increments never undercount", func(t *testing.T) {
		const goroutines = 100

		var wg sync.WaitGroup
		wg.Add(goroutines)

		for range goroutines {
			go func() {
				defer wg.Done()
				_, err := store.IncrBy(ctx, "parallel", 1, 0)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		n, err := store.IncrBy(ctx, "parallel", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(goroutines), n)
	})
}
