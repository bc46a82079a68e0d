package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"passage/internal/domain/auth"

	"github.com/rs/zerolog/log"
)

// SessionTTL is the validity window of an issued session credential.
const SessionTTL = 30 * 24 * time.Hour

// Service drives the login handshake: exchange the authorization code,
// verify the identity token, reconcile the claims into the user store
// and mint a session credential. It also resolves session credentials
// back into users on authenticated requests.
type Service struct {
	provider auth.IdentityProvider
	repo     auth.Repository
	codec    *TokenCodec
}

// NewService creates a new authentication service.
func NewService(provider auth.IdentityProvider, repo auth.Repository, codec *TokenCodec) *Service {
	return &Service{
		provider: provider,
		repo:     repo,
		codec:    codec,
	}
}

// NewState returns a random anti-forgery nonce tying an initiation to
// its callback.
func NewState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuthURL returns the provider consent URL for the given state.
func (s *Service) AuthURL(state string) string {
	return s.provider.AuthURL(state)
}

// CompleteLogin runs the callback half of the handshake. On success it
// returns the reconciled user and a signed session credential valid for
// SessionTTL. Failures are wrapped in the sentinel errors of the domain
// package so callers can translate them without inspecting internals.
func (s *Service) CompleteLogin(ctx context.Context, code string) (*auth.User, string, error) {
	if code == "" {
		return nil, "", auth.ErrNoCode
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrExchangeFailed, err)
	}

	claims, err := s.provider.Verify(ctx, token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrInvalidIdentity, err)
	}
	if claims.Subject == "" {
		return nil, "", fmt.Errorf("%w: empty subject", auth.ErrInvalidIdentity)
	}

	user, err := s.repo.Upsert(ctx, claims)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrDirectory, err)
	}

	credential, err := s.codec.Issue(user.ID, user.Email, SessionTTL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrDirectory, err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("User logged in")

	return user, credential, nil
}

// Resolve turns a session credential back into the current user.
// A missing, malformed, expired or tampered credential yields a codec
// error; a valid credential whose subject no longer exists yields
// auth.ErrUserNotFound.
func (s *Service) Resolve(ctx context.Context, credential string) (*auth.User, error) {
	userID, _, err := s.codec.Verify(credential)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrDirectory, err)
	}
	return user, nil
}
