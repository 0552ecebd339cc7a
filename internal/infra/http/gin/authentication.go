package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"mareblu/internal/app/services/adminauth"
)

const adminContextKey = "mareblu.admin"

// AuthMiddleware resolves a bearer token into the admin session. An absent or
// invalid token is not an error at this layer; protected groups enforce it.
type AuthMiddleware struct {
	Service *adminauth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	session, err := m.Service.Resolve(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, adminauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(adminContextKey, session)
	c.Next()
}

// RequireAdmin guards the back-office route group.
func RequireAdmin(c *gin.Context) {
	if _, exists := c.Get(adminContextKey); !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return
	}
	c.Next()
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
