package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/signalkit/pkg/kv"
)

// Unlimited marks the absence of a cap in a Result.
const Unlimited int64 = -1

const keyPrefix = "quota:signals:"

// Config holds the gate settings.
type Config struct {
	DailyLimit int64 `env:"QUOTA_DAILY_LIMIT" envDefault:"3"` // Signals per calendar day for free accounts.
}

// Result is the outcome of a quota check.
type Result struct {
	Limit   int64     // Configured cap, or Unlimited for paying accounts
	Used    int64     // Post-increment count for the day; 0 for paying accounts
	ResetAt time.Time // Next UTC midnight; zero for paying accounts
}

// Allowed reports whether the request may proceed.
func (r Result) Allowed() bool {
	return r.Limit == Unlimited || r.Used <= r.Limit
}

// Gate is the daily quota gate. Safe for concurrent use; the counter lives in
// the shared store.
type Gate struct {
	store kv.Store
	limit int64
}

// NewGate creates a Gate. Returns ErrInvalidConfig for a non-positive limit.
// Panics if store is nil to fail fast during initialization.
func NewGate(store kv.Store, cfg Config) (*Gate, error) {
	if store == nil {
		panic("quota: store is required")
	}
	if cfg.DailyLimit <= 0 {
		return nil, fmt.Errorf("%w: daily limit must be positive, got %d", ErrInvalidConfig, cfg.DailyLimit)
	}

	return &Gate{store: store, limit: cfg.DailyLimit}, nil
}

// CheckAndConsume consumes one unit of the account's daily allowance and
// reports the decision. The increment happens before the comparison, so a
// denied request has already been counted; only the allow/deny decision is
// externally observable, which makes that acceptable.
//
// Paying accounts are always allowed and never touch the store.
func (g *Gate) CheckAndConsume(ctx context.Context, accountID uuid.UUID, isPaying bool, now time.Time) (Result, error) {
	if isPaying {
		return Result{Limit: Unlimited}, nil
	}

	now = now.UTC()
	dayStart := now.Truncate(24 * time.Hour)
	resetAt := dayStart.Add(24 * time.Hour)

	key := keyPrefix + accountID.String() + ":" + dayStart.Format("2006-01-02")

	used, err := g.store.IncrBy(ctx, key, 1, resetAt.Sub(now))
	if err != nil {
		return Result{}, errors.Join(ErrQuotaCheckFailed, err)
	}

	return Result{Limit: g.limit, Used: used, ResetAt: resetAt}, nil
}
