package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Outcome classifies the result of applying a notification.
type Outcome string

const (
	// OutcomeApplied means the account transitioned (self-loops included)
	// and the status version was incremented.
	OutcomeApplied Outcome = "applied"
	// OutcomeNoOp means the account was already in the target state; no
	// write happened and the status version is unchanged.
	OutcomeNoOp Outcome = "noop_already_in_state"
)

// Result describes an accepted Apply call.
type Result struct {
	Outcome       Outcome
	AccountID     uuid.UUID
	Status        Status
	StatusVersion int64
}

// Machine applies billing notifications to account state. It holds no
// mutable state of its own; everything lives in the AccountStore, so any
// number of request handlers can share one Machine.
type Machine struct {
	accounts AccountStore
}

// NewMachine creates the entitlement state machine.
// Panics if accounts is nil to fail fast during initialization.
func NewMachine(accounts AccountStore) *Machine {
	if accounts == nil {
		panic("entitlement: account store is required")
	}
	return &Machine{accounts: accounts}
}

// Apply looks up the account by the notification's billing subject and runs
// the transition for the notification's kind:
//
//	free     + checkout/payment  -> active
//	active   + checkout/payment  -> active (self-loop, version still bumps)
//	past_due + checkout/payment  -> active
//	active   + payment_failed    -> past_due
//	active/past_due + canceled   -> free
//	free     + canceled/failed   -> no-op
//
// A CheckoutCompleted for an unbound billing subject binds it to the account
// named in the notification's AccountID hint, first-write-wins; checkout is
// the first point at which the binding can be established. Any other kind for
// an unbound subject returns ErrUnknownAccount.
func (m *Machine) Apply(ctx context.Context, n Notification) (Result, error) {
	if !n.Kind.Actionable() {
		return Result{}, ErrEventNotActionable
	}

	account, err := m.resolve(ctx, n)
	if err != nil {
		return Result{}, err
	}

	target, applies := transitionTarget(account.Status, n.Kind)
	if !applies {
		return Result{
			Outcome:       OutcomeNoOp,
			AccountID:     account.ID,
			Status:        account.Status,
			StatusVersion: account.StatusVersion,
		}, nil
	}

	account.Status = target
	account.StatusVersion++
	if !n.OccurredAt.IsZero() {
		account.UpdatedAt = n.OccurredAt
	}

	if err := m.accounts.Save(ctx, account); err != nil {
		return Result{}, errors.Join(ErrApplyFailed, err)
	}

	return Result{
		Outcome:       OutcomeApplied,
		AccountID:     account.ID,
		Status:        account.Status,
		StatusVersion: account.StatusVersion,
	}, nil
}

// resolve finds the target account, binding the billing subject on first
// checkout if needed.
func (m *Machine) resolve(ctx context.Context, n Notification) (*Account, error) {
	account, err := m.accounts.GetByBillingSubject(ctx, n.BillingSubjectID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, errors.Join(ErrApplyFailed, err)
	}

	if n.Kind != KindCheckoutCompleted || n.AccountID == uuid.Nil {
		return nil, errors.Join(ErrUnknownAccount, err)
	}

	if err := m.accounts.BindBillingSubject(ctx, n.AccountID, n.BillingSubjectID); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, errors.Join(ErrUnknownAccount, err)
		}
		return nil, errors.Join(ErrApplyFailed, err)
	}

	// Re-read through the subject index so a concurrent binding loser still
	// sees the winner's account.
	account, err = m.accounts.GetByBillingSubject(ctx, n.BillingSubjectID)
	if err != nil {
		return nil, errors.Join(ErrApplyFailed, err)
	}
	return account, nil
}

// transitionTarget is the arrival-order transition table. The second return
// reports whether the row is an accepted transition; false rows are no-ops.
func transitionTarget(current Status, kind EventKind) (Status, bool) {
	switch kind {
	case KindCheckoutCompleted, KindPaymentSucceeded:
		// Self-loop on active is accepted on purpose: a renewal invoice is
		// a real event and bumps the status version.
		return StatusActive, true
	case KindPaymentFailed:
		if current == StatusActive {
			return StatusPastDue, true
		}
		return current, false
	case KindSubscriptionCanceled:
		if current == StatusFree {
			return current, false
		}
		return StatusFree, true
	default:
		return current, false
	}
}
