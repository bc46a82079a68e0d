package api

import (
	"errors"
	"net/http"

	"passage/internal/adapters/api/middleware"
	appauth "passage/internal/application/auth"
	domainauth "passage/internal/domain/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// stateCookie carries the anti-forgery nonce between the initiation
// redirect and the provider callback.
const stateCookie = "oauth_state"

// stateCookieMaxAge bounds how long an initiated handshake stays
// completable.
const stateCookieMaxAge = 5 * 60

// GoogleLogin godoc
// @Summary      Start Google sign-in
// @Description  Redirect the browser to Google's consent screen
// @Tags         auth
// @Success      302
// @Router       /auth/google [get]
func (h *Handler) GoogleLogin(c *gin.Context) {
	state, err := appauth.NewState()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate OAuth state")
		h.redirectLoginError(c, "authentication_failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", h.cfg.IsProduction(), true)

	log.Info().Msg("Redirecting to Google OAuth")
	c.Redirect(http.StatusFound, h.authService.AuthURL(state))
}

// GoogleCallback godoc
// @Summary      Complete Google sign-in
// @Description  Exchange the authorization code, reconcile the user and set the session cookie. Always answers with a redirect.
// @Tags         auth
// @Param        code  query string false "Authorization code"
// @Param        state query string false "Anti-forgery state"
// @Param        error query string false "Provider error code"
// @Success      302
// @Router       /auth/google/callback [get]
func (h *Handler) GoogleCallback(c *gin.Context) {
	// The provider declined before issuing a code; no handshake to
	// complete.
	if providerErr := c.Query("error"); providerErr != "" {
		log.Warn().Str("error", providerErr).Msg("Google OAuth error")
		h.redirectLoginError(c, providerErr)
		return
	}

	// The callback must echo the state minted at initiation.
	cookieState, err := c.Cookie(stateCookie)
	h.clearCookie(c, stateCookie)
	if err != nil || cookieState == "" || c.Query("state") != cookieState {
		log.Warn().Msg("OAuth state mismatch")
		h.redirectLoginError(c, "invalid_state")
		return
	}

	code := c.Query("code")
	if code == "" {
		log.Warn().Msg("No authorization code received")
		h.redirectLoginError(c, "no_code")
		return
	}

	user, credential, err := h.authService.CompleteLogin(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domainauth.ErrNoCode) {
			h.redirectLoginError(c, "no_code")
			return
		}
		log.Error().Err(err).Msg("Google callback failed")
		h.redirectLoginError(c, "authentication_failed")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, credential, int(appauth.SessionTTL.Seconds()), "/", "", h.cfg.IsProduction(), true)

	log.Info().Str("user_id", user.ID).Msg("Session cookie set, redirecting to dashboard")
	c.Redirect(http.StatusFound, h.cfg.ClientURL+"/dashboard")
}

// Me godoc
// @Summary      Current user
// @Description  Return the user resolved from the session cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      401 {object} map[string]any
// @Failure      404 {object} map[string]any
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// Logout godoc
// @Summary      Logout
// @Description  Instruct the client to discard the session cookie. No server-side state is touched; always succeeds.
// @Tags         auth
// @Produce      json
// @Success      200 {object} map[string]any
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.clearCookie(c, middleware.SessionCookie)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// redirectLoginError sends the browser back to the login page with a
// machine-readable error tag. Handshake failures never surface as 5xx.
func (h *Handler) redirectLoginError(c *gin.Context, tag string) {
	c.Redirect(http.StatusFound, h.cfg.ClientURL+"/login?error="+tag)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.cfg.IsProduction(), true)
}
