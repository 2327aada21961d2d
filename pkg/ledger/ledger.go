package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/signalkit/pkg/kv"
)

// DefaultRetention is how long an admitted notification identifier is
// remembered. It must comfortably exceed the sender's redelivery horizon.
const DefaultRetention = 24 * time.Hour

const keyPrefix = "billing:event:"

// Result reports the outcome of an admission attempt.
type Result string

const (
	// Admitted means this caller won the right to apply the notification's
	// effect.
	Admitted Result = "admitted"
	// AlreadyProcessed means the identifier was seen before within the
	// retention window; the caller must not apply any effect.
	AlreadyProcessed Result = "already_processed"
)

// Ledger records which notification identifiers have already produced an
// effect. Safe for concurrent use; all coordination happens in the store.
type Ledger struct {
	store     kv.Store
	retention time.Duration
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithRetention overrides the dedup window. Values <= 0 are ignored.
func WithRetention(retention time.Duration) Option {
	return func(l *Ledger) {
		if retention > 0 {
			l.retention = retention
		}
	}
}

// New creates a Ledger backed by the given store.
// Panics if store is nil to fail fast during initialization.
func New(store kv.Store, opts ...Option) *Ledger {
	if store == nil {
		panic("ledger: store is required")
	}

	l := &Ledger{
		store:     store,
		retention: DefaultRetention,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Admit attempts to claim the notification identifier. Exactly one concurrent
// caller per identifier gets Admitted; the rest get AlreadyProcessed.
//
// A store failure returns an error joined with kv.ErrUnavailable and makes no
// admission decision; the caller must fail the whole delivery rather than
// guess, otherwise the same notification could be applied twice.
func (l *Ledger) Admit(ctx context.Context, notificationID string) (Result, error) {
	if notificationID == "" {
		return "", ErrEmptyNotificationID
	}

	created, err := l.store.SetNX(ctx, keyPrefix+notificationID, []byte("1"), l.retention)
	if err != nil {
		return "", errors.Join(ErrAdmitFailed, err)
	}

	if !created {
		return AlreadyProcessed, nil
	}
	return Admitted, nil
}
