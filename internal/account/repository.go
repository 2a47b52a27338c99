package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Store is the read-only user record store consumed by the gate and the
// verifier. Usernames passed in must already be normalized.
type Store interface {
	FindByToken(ctx context.Context, token string) (Account, error)
	FindByUsernameAndPasswordHash(ctx context.Context, username, hash string) (Account, error)
}

// Repository adds the out-of-band provisioning write to Store.
type Repository interface {
	Store
	Create(ctx context.Context, acc Account) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, acc Account) error {
	accountID, err := uuid.Parse(acc.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO accounts (id, username, password_hash, api_token, created_at)
        VALUES ($1, $2, $3, $4, $5)`, accountID, acc.Username, acc.PasswordHash, acc.APIToken, acc.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return &StoreError{Op: "create", Err: err}
	}
	return nil
}

// FindByToken fetches the account owning the given API token.
func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, api_token, created_at
        FROM accounts WHERE api_token = $1`, token)
	return scanAccount(row, "find by token")
}

// FindByUsernameAndPasswordHash fetches the account matching both columns.
func (r *PostgresRepository) FindByUsernameAndPasswordHash(ctx context.Context, username, hash string) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, username, password_hash, api_token, created_at
        FROM accounts WHERE username = $1 AND password_hash = $2`, username, hash)
	return scanAccount(row, "find by credentials")
}

func scanAccount(row pgx.Row, op string) (Account, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		acc       Account
	)
	if err := row.Scan(&id, &acc.Username, &acc.PasswordHash, &acc.APIToken, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, &StoreError{Op: op, Err: err}
	}
	acc.ID = id.String()
	acc.CreatedAt = createdAt.UTC()
	return acc, nil
}
