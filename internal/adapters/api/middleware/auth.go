package middleware

import (
	"errors"
	"net/http"

	appauth "passage/internal/application/auth"
	domainauth "passage/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

const (
	// UserContextKey is the key used to store the user in gin context
	UserContextKey = "user"

	// SessionCookie is the cookie carrying the session credential
	SessionCookie = "token"
)

// RequireUser guards a route behind a valid session credential. A
// missing, malformed, expired or tampered cookie yields 401; a valid
// credential whose user no longer exists yields 404. On success the
// resolved user is stored in the gin context.
func RequireUser(authService *appauth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, err := c.Cookie(SessionCookie)
		if err != nil || credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		user, err := authService.Resolve(c.Request.Context(), credential)
		if err != nil {
			if errors.Is(err, domainauth.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"ok": false, "message": "User not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

// GetUserFromContext retrieves the user from the gin context
func GetUserFromContext(c *gin.Context) *domainauth.User {
	if user, exists := c.Get(UserContextKey); exists {
		if u, ok := user.(*domainauth.User); ok {
			return u
		}
	}
	return nil
}
