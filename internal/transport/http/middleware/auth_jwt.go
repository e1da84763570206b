package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"store-rating/internal/core/auth"
	"store-rating/internal/domain"
	"store-rating/internal/policy"
	resp "store-rating/internal/transport/http/response"
)

const keyActor = "actor"

// RoleResolver looks up the role held by an identity.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Role, bool, error)
}

// AuthJWT verifies the bearer token and stores the Actor for the request.
// Only the identity comes from the token; the role is always resolved
// server-side, and is empty until the identity has been bootstrapped.
func AuthJWT(j *auth.JWTer, roles RoleResolver, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		uid := claims.UserID()
		role, _, err := roles.Resolve(c.Request.Context(), uid)
		if err != nil {
			l.Error("resolve role", zap.String("user_id", uid), zap.Error(err))
			abort(c, resp.CodeServerError, "")
			return
		}
		c.Set(keyActor, policy.Actor{ID: uid, Role: role})
		c.Next()
	}
}

// RequireRole rejects actors that do not hold role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, ok := ActorFrom(c)
		if !ok {
			abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		if a.Role != role {
			abort(c, resp.CodeForbidden, "requires role "+string(role))
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (policy.Actor, bool) {
	v, ok := c.Get(keyActor)
	if !ok {
		return policy.Actor{}, false
	}
	a, ok := v.(policy.Actor)
	return a, ok
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(resp.Status(code), resp.Error(code, msg))
}
