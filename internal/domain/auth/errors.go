package auth

import "errors"

var (
	// ErrUserNotFound is returned when no user matches a lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoCode is returned when a callback carries no authorization code.
	ErrNoCode = errors.New("no authorization code received")

	// ErrExchangeFailed is returned when the provider rejects the
	// authorization code or the token endpoint is unreachable.
	ErrExchangeFailed = errors.New("authorization code exchange failed")

	// ErrInvalidIdentity is returned when the provider's ID token fails
	// verification (signature, audience, expiry) or carries no payload.
	ErrInvalidIdentity = errors.New("invalid identity token")

	// ErrDirectory is returned when the user store fails during login.
	ErrDirectory = errors.New("user directory failure")
)
