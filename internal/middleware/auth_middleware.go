package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/socialnet/internal/database/models"
	"github.com/EgehanKilicarslan/socialnet/internal/database/service"
)

const currentUserKey = "currentUser"

// AuthMiddleware guards routes that need a signed-in user
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth resolves the bearer token to a user and stores it in the context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.service.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			status, detail := authFailure(err)
			if status == http.StatusInternalServerError {
				m.logger.Error("❌ [Middleware] Authentication failed", "error", err)
			} else {
				m.logger.Warn("⚠️ [Middleware] Request rejected", "status", status, "reason", err)
			}
			c.AbortWithStatusJSON(status, gin.H{"detail": detail})
			return
		}

		c.Set(currentUserKey, user)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", user.ID)

		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// bearerToken returns "" for a missing header or any other scheme
func bearerToken(c *gin.Context) string {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, service.TokenType) {
		return ""
	}
	return strings.TrimSpace(token)
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoCredentials):
		return http.StatusForbidden, "Not authenticated. Log in to get access."
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, service.ErrMissingExpiry):
		return http.StatusBadRequest, "No access token expiry supplied"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusForbidden, "Token expired!"
	case errors.Is(err, service.ErrUnknownUser):
		return http.StatusForbidden, "User not found."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
