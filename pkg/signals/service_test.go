package signals_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signalkit/pkg/entitlement"
	"github.com/dmitrymomot/signalkit/pkg/kv"
	"github.com/dmitrymomot/signalkit/pkg/quota"
	"github.com/dmitrymomot/signalkit/pkg/signalcache"
	"github.com/dmitrymomot/signalkit/pkg/signals"
)

func newService(t *testing.T, dailyLimit int64) *signals.Service {
	t.Helper()

	store := kv.NewMemoryStore(kv.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	gate, err := quota.NewGate(store, quota.Config{DailyLimit: dailyLimit})
	require.NoError(t, err)

	return signals.NewService(gate, signalcache.New(store))
}

func freeAccount() *entitlement.Account {
	return &entitlement.Account{ID: uuid.New(), Status: entitlement.StatusFree}
}

func paidAccount() *entitlement.Account {
	return &entitlement.Account{ID: uuid.New(), Status: entitlement.StatusActive}
}

func TestService_GetSignals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 31, 0, 0, time.UTC)

	t.Run("free account sequence allowed until the limit", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, 3)
		account := freeAccount()

		for i := 1; i <= 3; i++ {
			resp, err := svc.GetSignals(ctx, account, now)
			require.NoError(t, err, "request %d should be allowed", i)
			assert.Len(t, resp.Signals, 3, "free responses are trimmed to the daily limit")
			assert.False(t, resp.IsPaid)
			require.NotNil(t, resp.UserLimit)
			assert.Contains(t, *resp.UserLimit, "3/day")
		}

		_, err := svc.GetSignals(ctx, account, now)
		require.ErrorIs(t, err, signals.ErrDailyLimitExceeded)
		assert.Contains(t, err.Error(), "3 signals per day", "deny message must carry the configured limit")
	})

	t.Run("allowance returns the next day", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, 3)
		account := freeAccount()

		for range 4 {
			_, _ = svc.GetSignals(ctx, account, now)
		}

		resp, err := svc.GetSignals(ctx, account, now.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Len(t, resp.Signals, 3)
	})

	t.Run("paying account gets everything, unmetered", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, 3)
		account := paidAccount()

		for range 10 {
			resp, err := svc.GetSignals(ctx, account, now)
			require.NoError(t, err)
			assert.Len(t, resp.Signals, 10, "paid responses are untrimmed")
			assert.True(t, resp.IsPaid)
			assert.Nil(t, resp.UserLimit)
		}
	})

	t.Run("past due keeps unlimited access", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, 3)
		account := &entitlement.Account{ID: uuid.New(), Status: entitlement.StatusPastDue}

		resp, err := svc.GetSignals(ctx, account, now)
		require.NoError(t, err)
		assert.Len(t, resp.Signals, 10)
	})

	t.Run("free and paid share the cached payload", func(t *testing.T) {
		t.Parallel()

		svc := newService(t, 3)

		paid, err := svc.GetSignals(ctx, paidAccount(), now)
		require.NoError(t, err)
		free, err := svc.GetSignals(ctx, freeAccount(), now)
		require.NoError(t, err)

		assert.Equal(t, paid.Signals[:3], free.Signals,
			"free response is a prefix of the shared cached set")
	})
}
