package course

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

// Repository persists courses. Codes passed in are already normalized.
type Repository interface {
	Create(ctx context.Context, c Course) error
	List(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, code string) (Course, error)
	Update(ctx context.Context, code string, patch Patch) (Course, error)
	Delete(ctx context.Context, code string) error
}

// PostgresRepository stores courses in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const courseColumns = `id, code, name, description, scu, created_at, updated_at`

// Create inserts a course record.
func (r *PostgresRepository) Create(ctx context.Context, c Course) error {
	courseID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO courses (id, code, name, description, scu, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`, courseID, c.Code, c.Name, c.Description, c.SCU, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return mapWriteErr(err)
}

// List returns every course ordered by code.
func (r *PostgresRepository) List(ctx context.Context) ([]Course, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get fetches a course by code.
func (r *PostgresRepository) Get(ctx context.Context, code string) (Course, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE code = $1`, code)
	return scanCourse(row)
}

// Update applies the non-nil patch fields and returns the stored result.
func (r *PostgresRepository) Update(ctx context.Context, code string, patch Patch) (Course, error) {
	row := r.db.QueryRow(ctx, `UPDATE courses SET
            code = COALESCE($2, code),
            name = COALESCE($3, name),
            description = COALESCE($4, description),
            scu = COALESCE($5, scu),
            updated_at = NOW()
        WHERE code = $1
        RETURNING `+courseColumns, code, patch.Code, patch.Name, patch.Description, patch.SCU)
	c, err := scanCourse(row)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Course{}, mapWriteErr(err)
	}
	return c, err
}

// Delete removes a course by code.
func (r *PostgresRepository) Delete(ctx context.Context, code string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM courses WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (Course, error) {
	var (
		id                   uuid.UUID
		createdAt, updatedAt time.Time
		c                    Course
	)
	if err := row.Scan(&id, &c.Code, &c.Name, &c.Description, &c.SCU, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	c.ID = id.String()
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
