package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pick-your-pour/signup-service/internal/domain"
)

const uniqueViolationCode = "23505"

// DuplicateError reports a unique-constraint violation on user creation,
// naming the colliding field. This is the authoritative rejection behind the
// optimistic pre-check.
type DuplicateError struct {
	Field domain.UniqueField
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// UserRepository defines persistence access for registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	ExistsByField(ctx context.Context, field domain.UniqueField, value string) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfileImage(ctx context.Context, id, url string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, profile_image_url, phone)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.ProfileImageURL,
		user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dup := duplicateField(err); dup != nil {
			return dup
		}
		return err
	}
	return nil
}

func (r *userRepository) ExistsByField(ctx context.Context, field domain.UniqueField, value string) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("unknown unique field %q", field)
	}

	// field is interpolated from the validated enum, never from user input.
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE lower(%s) = lower($1)`, field)

	var count int64
	if err := r.pool.QueryRow(ctx, query, value).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, username, email, profile_image_url, phone, created_at, updated_at
        FROM users WHERE id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProfileImageURL,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfileImage(ctx context.Context, id, url string) (*domain.User, error) {
	const query = `
        UPDATE users SET profile_image_url=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, username, email, profile_image_url, phone, created_at, updated_at`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, url, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.ProfileImageURL,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// duplicateField maps a 23505 constraint name onto the colliding column.
func duplicateField(err error) *DuplicateError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "username"):
		return &DuplicateError{Field: domain.FieldUsername}
	case strings.Contains(pgErr.ConstraintName, "email"):
		return &DuplicateError{Field: domain.FieldEmail}
	default:
		return &DuplicateError{Field: domain.FieldUsername}
	}
}
