package entitlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryStore implements AccountStore with process-local state.
type memoryStore struct {
	mu        sync.RWMutex
	accounts  map[uuid.UUID]Account
	bySubject map[string]uuid.UUID
}

// NewMemoryStore returns an in-memory AccountStore for tests and single-node
// deployments.
func NewMemoryStore() AccountStore {
	return &memoryStore{
		accounts:  make(map[uuid.UUID]Account),
		bySubject: make(map[string]uuid.UUID),
	}
}

func (s *memoryStore) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (s *memoryStore) GetByBillingSubject(ctx context.Context, subjectID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySubject[subjectID]
	if !ok {
		return nil, ErrAccountNotFound
	}

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (s *memoryStore) BindBillingSubject(ctx context.Context, accountID uuid.UUID, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}

	switch account.BillingSubjectID {
	case "":
		account.BillingSubjectID = subjectID
		s.accounts[accountID] = account
		s.bySubject[subjectID] = accountID
		return nil
	case subjectID:
		// Rebinding the same subject is idempotent.
		return nil
	default:
		return ErrSubjectAlreadyBound
	}
}

func (s *memoryStore) Save(ctx context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = *account
	if account.BillingSubjectID != "" {
		s.bySubject[account.BillingSubjectID] = account.ID
	}
	return nil
}
