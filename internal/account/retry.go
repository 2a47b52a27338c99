package account

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryingStore retries store failures with a constant backoff. Lookups that
// simply find nothing are returned immediately.
type RetryingStore struct {
	next     Store
	attempts uint64
	backoff  time.Duration
}

// NewRetryingStore wraps next; attempts counts the first try.
func NewRetryingStore(next Store, attempts int, backoff time.Duration) *RetryingStore {
	if attempts < 1 {
		attempts = 1
	}
	if backoff <= 0 {
		backoff = time.Millisecond
	}
	return &RetryingStore{next: next, attempts: uint64(attempts), backoff: backoff}
}

func (s *RetryingStore) FindByToken(ctx context.Context, token string) (Account, error) {
	return s.do(ctx, func(ctx context.Context) (Account, error) {
		return s.next.FindByToken(ctx, token)
	})
}

func (s *RetryingStore) FindByUsernameAndPasswordHash(ctx context.Context, username, hash string) (Account, error) {
	return s.do(ctx, func(ctx context.Context) (Account, error) {
		return s.next.FindByUsernameAndPasswordHash(ctx, username, hash)
	})
}

func (s *RetryingStore) do(ctx context.Context, lookup func(context.Context) (Account, error)) (Account, error) {
	var acc Account
	b := retry.WithMaxRetries(s.attempts-1, retry.NewConstant(s.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		acc, err = lookup(ctx)
		if IsStoreError(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return Account{}, err
	}
	return acc, nil
}
