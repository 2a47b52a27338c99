package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verifier exchanges a username/password pair for the account's API token.
type Verifier struct {
	store  Store
	hasher Hasher
}

// NewVerifier creates a credential verifier over the given store.
func NewVerifier(store Store, hasher Hasher) *Verifier {
	return &Verifier{store: store, hasher: hasher}
}

// Verify returns the API token of the account matching username and password.
// Unknown users and wrong passwords both yield ErrInvalidCredentials; store
// failures come back as *StoreError. Callers validate non-empty inputs.
func (v *Verifier) Verify(ctx context.Context, username, password string) (string, error) {
	acc, err := v.store.FindByUsernameAndPasswordHash(ctx, NormalizeUsername(username), v.hasher.Hash(password))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return acc.APIToken, nil
}

// Provisioner creates accounts out-of-band (CLI, fixtures). The gateway
// itself never writes to the store.
type Provisioner struct {
	repo   Repository
	hasher Hasher
}

// NewProvisioner creates an account provisioner.
func NewProvisioner(repo Repository, hasher Hasher) *Provisioner {
	return &Provisioner{repo: repo, hasher: hasher}
}

// Create stores a new account. An empty token is replaced by a random one.
func (p *Provisioner) Create(ctx context.Context, username, password, token string) (Account, error) {
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return Account{}, ErrIncomplete
	}
	if token == "" {
		token = NewToken()
	}

	acc := Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: p.hasher.Hash(password),
		APIToken:     token,
		CreatedAt:    time.Now().UTC(),
	}
	if err := p.repo.Create(ctx, acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

// NewToken returns a random opaque API token of 64 hex characters.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
