package account

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no record matches the query.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is the single failure reported for an unknown
	// username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicate indicates the username or token is already taken.
	ErrDuplicate = errors.New("account already exists")

	// ErrIncomplete rejects accounts missing a username, hash or token.
	ErrIncomplete = errors.New("account requires username, password and token")
)

// StoreError reports that the record store itself failed (connectivity,
// driver or query errors), as opposed to a lookup that found nothing.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("account store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err carries a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
