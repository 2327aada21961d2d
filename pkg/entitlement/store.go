package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// AccountStore defines the persistence contract for accounts. The host
// application supplies the production implementation; NewMemoryStore covers
// tests and single-node setups.
type AccountStore interface {
	// Get retrieves an account by its internal identifier.
	// Returns ErrAccountNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByBillingSubject retrieves the account bound to the payment
	// processor's customer identifier. Returns ErrAccountNotFound if no
	// account is bound to it.
	GetByBillingSubject(ctx context.Context, subjectID string) (*Account, error)

	// BindBillingSubject associates a billing subject with an account,
	// first-write-wins: binding the same subject again is a no-op, binding
	// a different one returns ErrSubjectAlreadyBound. The check and the
	// write must be a single atomic step.
	BindBillingSubject(ctx context.Context, accountID uuid.UUID, subjectID string) error

	// Save creates or updates an account.
	Save(ctx context.Context, account *Account) error
}
