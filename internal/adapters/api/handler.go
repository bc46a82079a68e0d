package api

import (
	"net/http"

	appauth "passage/internal/application/auth"
	"passage/internal/config"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the authentication API
type Handler struct {
	authService *appauth.Service
	cfg         *config.Config
}

// NewHandler creates a new API handler
func NewHandler(authService *appauth.Service, cfg *config.Config) *Handler {
	return &Handler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine, requireUser gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.GET("/google", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
		auth.GET("/me", requireUser, h.Me)
		auth.POST("/logout", h.Logout)
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health)
		api.GET("/users/me", requireUser, h.Me)
	}
}

// Health godoc
// @Summary      Health check
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /api/v1/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
