package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Status represents an account's subscription state.
type Status string

const (
	StatusFree    Status = "free"
	StatusActive  Status = "active"
	StatusPastDue Status = "past_due"
)

// IsPaying reports whether the status carries the unlimited entitlement.
// PastDue counts as paying: access survives a failed renewal until the
// subscription is actually canceled.
func (s Status) IsPaying() bool {
	return s == StatusActive || s == StatusPastDue
}

// EventKind is the closed set of billing notification kinds the state
// machine understands. Anything else must be classified Ignored upstream and
// never reach Apply.
type EventKind string

const (
	KindCheckoutCompleted    EventKind = "checkout_completed"
	KindPaymentSucceeded     EventKind = "payment_succeeded"
	KindPaymentFailed        EventKind = "payment_failed"
	KindSubscriptionCanceled EventKind = "subscription_canceled"

	// KindUnknown marks a provider event with no mapping. It is not
	// actionable.
	KindUnknown EventKind = "unknown"
)

// Actionable reports whether the kind can drive a transition.
func (k EventKind) Actionable() bool {
	switch k {
	case KindCheckoutCompleted, KindPaymentSucceeded, KindPaymentFailed, KindSubscriptionCanceled:
		return true
	default:
		return false
	}
}

// Notification is a normalized billing event. It is transient: consumed once
// and never persisted beyond the idempotency ledger's dedup window.
type Notification struct {
	ID               string    // Sender-assigned, globally unique
	Kind             EventKind
	BillingSubjectID string    // Payment processor's customer identifier
	AccountID        uuid.UUID // Optional hint from checkout metadata; zero if absent
	OccurredAt       time.Time // Nominal event time as stamped by the sender
}

// Account is the unit of entitlement. Owned exclusively by the state machine;
// the quota gate only reads Status to decide bypass.
type Account struct {
	ID               uuid.UUID
	Email            string
	BillingSubjectID string // Empty until the first successful checkout binds it
	Status           Status
	StatusVersion    int64 // Incremented on every accepted transition
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
