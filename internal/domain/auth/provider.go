package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// IdentityProvider abstracts the external identity provider so the
// handshake can be driven against a test double.
type IdentityProvider interface {
	// AuthURL returns the provider consent URL carrying the given
	// anti-forgery state value.
	AuthURL(state string) string

	// Exchange trades an authorization code for provider tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Verify validates the ID token inside a token response against the
	// provider's published signing keys and returns the claims it
	// asserts. A token response without an ID token, or one whose
	// payload is empty, is an error, never an anonymous identity.
	Verify(ctx context.Context, token *oauth2.Token) (*IdentityClaims, error)
}
