package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMalformed is returned for credentials that are not
	// well-formed compact JWTs.
	ErrTokenMalformed = errors.New("malformed session token")

	// ErrTokenExpired is returned when a credential's expiry has passed.
	ErrTokenExpired = errors.New("expired session token")

	// ErrTokenSignature is returned when a credential's signature does
	// not verify against the server secret.
	ErrTokenSignature = errors.New("invalid session token signature")
)

// SessionClaims is the payload of a session credential: the local user
// ID as subject plus a denormalized email for cheap display.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies the server's own session credentials.
// Credentials are self-contained HS256 JWTs; there is no server-side
// session store and no revocation list, validity is signature + expiry.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec signing with the given shared secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue signs a credential binding userID and email for the ttl window.
func (c *TokenCodec) Issue(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded user ID
// and email. No claim of a credential that failed verification is
// ever returned.
func (c *TokenCodec) Verify(credential string) (userID, email string, err error) {
	var claims SessionClaims
	_, err = jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", "", ErrTokenSignature
		default:
			return "", "", ErrTokenMalformed
		}
	}
	if claims.Subject == "" {
		return "", "", ErrTokenMalformed
	}
	return claims.Subject, claims.Email, nil
}
