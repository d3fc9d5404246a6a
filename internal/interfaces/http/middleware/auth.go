package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/infrastructure/logger"
	"github.com/bizops/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// ActorAuth validates the bearer token and resolves the acting user.
// Every business route requires it; the guard inside the services makes
// the actual allow/deny decision, this middleware only establishes WHO.
func ActorAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.Warn("Token validation failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetString(RequestIDKey)),
			)
			message := "Invalid token"
			if err == auth.ErrExpiredToken {
				message = "Token has expired"
			}
			abortUnauthorized(c, message)
			return
		}

		actor, err := claims.Actor()
		if err != nil {
			log.Warn("Token carried unusable claims",
				zap.Error(err),
				zap.String("request_id", c.GetString(RequestIDKey)),
			)
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		c.Set(ActorKey, actor)

		ctx := c.Request.Context()
		enriched := logger.FromContext(ctx)
		ctx, enriched = logger.WithTenantID(ctx, enriched, actor.TenantID.String())
		ctx, _ = logger.WithActorID(ctx, enriched, actor.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetActor retrieves the authenticated actor from gin context
func GetActor(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDKey), false))
}
