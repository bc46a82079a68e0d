package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"passage/internal/domain/auth"

	"github.com/google/uuid"
)

// UserRepository is a Postgres implementation of auth.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a UserRepository
func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

const userColumns = `id, google_id, email, name, picture, created_at, updated_at, last_login_at`

// scanner is implemented by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row scanner) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert inserts or refreshes the user row keyed by google_id. The
// unique constraint plus ON CONFLICT makes concurrent first logins for
// the same subject resolve to a single row; the freshly generated UUID
// is discarded when the row already exists.
func (r *UserRepository) Upsert(ctx context.Context, claims *auth.IdentityClaims) (*auth.User, error) {
	row := r.db.QueryRowContext(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, now(), now(), now())
		ON CONFLICT (google_id) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    picture = EXCLUDED.picture,
		    updated_at = now(),
		    last_login_at = now()
		RETURNING `+userColumns,
		uuid.NewString(), claims.Subject, claims.Email, claims.Name, claims.Picture)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE google_id=$1`, googleID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by google id: %w", err)
	}
	return u, nil
}
