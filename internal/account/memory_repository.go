package account

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]Account
	byToken    map[string]string
}

// NewMemoryRepository builds an in-memory account store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byUsername: make(map[string]Account),
		byToken:    make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, acc Account) error {
	if acc.Username == "" || acc.PasswordHash == "" || acc.APIToken == "" {
		return ErrIncomplete
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUsername[acc.Username]; exists {
		return ErrDuplicate
	}
	if _, exists := r.byToken[acc.APIToken]; exists {
		return ErrDuplicate
	}
	r.byUsername[acc.Username] = acc
	r.byToken[acc.APIToken] = acc.Username
	return nil
}

func (r *memoryRepository) FindByToken(_ context.Context, token string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.byToken[token]
	if !ok {
		return Account{}, ErrNotFound
	}
	return r.byUsername[username], nil
}

func (r *memoryRepository) FindByUsernameAndPasswordHash(_ context.Context, username, hash string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.byUsername[username]
	if !ok || acc.PasswordHash != hash {
		return Account{}, ErrNotFound
	}
	return acc, nil
}
