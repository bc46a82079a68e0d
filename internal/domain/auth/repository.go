package auth

import "context"

// Repository defines the interface for user persistence.
type Repository interface {
	// Upsert creates or updates the user keyed by claims.Subject.
	// The operation must be atomic: two concurrent first logins for the
	// same subject observe the same user ID. Mutable profile fields
	// (email, name, picture) are refreshed on every call.
	Upsert(ctx context.Context, claims *IdentityClaims) (*User, error)

	// GetByID retrieves a user by local ID. Returns ErrUserNotFound
	// when no row matches.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByGoogleID retrieves a user by Google subject. Returns
	// ErrUserNotFound when no row matches.
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
}
