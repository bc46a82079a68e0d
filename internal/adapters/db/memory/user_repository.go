package memory

import (
	"context"
	"sync"
	"time"

	"passage/internal/domain/auth"

	"github.com/google/uuid"
)

// UserRepository is an in-memory implementation of the auth repository
type UserRepository struct {
	mu             sync.RWMutex
	usersByID      map[string]*auth.User // user ID -> User
	usersBySubject map[string]*auth.User // google ID -> User
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		usersByID:      make(map[string]*auth.User),
		usersBySubject: make(map[string]*auth.User),
	}
}

// Upsert creates or refreshes a user keyed by claims.Subject. The
// single write lock makes concurrent first logins for one subject
// resolve to one user.
func (r *UserRepository) Upsert(ctx context.Context, claims *auth.IdentityClaims) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if user, exists := r.usersBySubject[claims.Subject]; exists {
		user.Email = claims.Email
		user.Name = claims.Name
		user.Picture = claims.Picture
		user.UpdatedAt = now
		user.LastLoginAt = now
		return cloneUser(user), nil
	}

	user := &auth.User{
		ID:          uuid.NewString(),
		GoogleID:    claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Picture:     claims.Picture,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}
	r.usersByID[user.ID] = user
	r.usersBySubject[user.GoogleID] = user
	return cloneUser(user), nil
}

// GetByID retrieves a user by local ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.usersByID[id]
	if !exists {
		return nil, auth.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetByGoogleID retrieves a user by Google subject
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.usersBySubject[googleID]
	if !exists {
		return nil, auth.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// Delete removes a user. Used to exercise the valid-credential,
// vanished-account path.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.usersByID[id]
	if !exists {
		return auth.ErrUserNotFound
	}
	delete(r.usersByID, id)
	delete(r.usersBySubject, user.GoogleID)
	return nil
}

// cloneUser copies the stored row so callers cannot mutate it in place
func cloneUser(u *auth.User) *auth.User {
	c := *u
	return &c
}
