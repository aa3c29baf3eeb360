package api

import (
	"alcyxob/fitcoach/internal/authz"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/service"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ContextIdentityKey holds the *domain.Identity resolved by AuthMiddleware.
const ContextIdentityKey = "identity"

// RequestLogger logs one line per request with zerolog.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if id := identityFrom(c); id != nil {
			event = event.Str("userId", id.UserID)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// AuthMiddleware creates a Gin middleware for bearer-token authentication.
// The resolved identity is stored under ContextIdentityKey.
func AuthMiddleware(resolver service.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, apperrors.Unauthenticated("Authorization header is missing"))
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(c, apperrors.Unauthenticated("Authorization header format must be Bearer {token}"))
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := authz.RequireRole(identityFrom(c), allowedRoles...); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

// identityFrom returns the caller set by AuthMiddleware, or nil.
func identityFrom(c *gin.Context) *domain.Identity {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, _ := raw.(*domain.Identity)
	return identity
}
