package auth

import "time"

// IdentityClaims are the provider-asserted facts extracted from a
// verified Google ID token. They are request-scoped: only the fields
// copied into User survive the login.
type IdentityClaims struct {
	Subject   string    `json:"sub"`     // Google's stable user identifier
	Email     string    `json:"email"`   // User email
	Name      string    `json:"name"`    // Full display name
	Picture   string    `json:"picture"` // Avatar URL
	Audience  string    `json:"aud"`     // OAuth client the token was minted for
	ExpiresAt time.Time `json:"exp"`     // Token expiry
}
