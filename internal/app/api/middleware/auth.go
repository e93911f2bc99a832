package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/logctx"
	"github.com/nusatel/simfleet/pkg/response"
)

// AuthMiddleware validates a Bearer JWT signed with the configured HMAC
// secret. When no secret is configured the middleware is a no-op, which keeps
// local development and tests free of token plumbing.
//
// The token subject is stored in gin.Context under "actor" so handlers can
// attribute status changes in the history log.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := ""
	if cfg != nil {
		secret = cfg.Auth.JWTSecret
	}
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT(response.APIResponseCodeBadRequest, "missing authorization token"))
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT(response.APIResponseCodeBadRequest, "invalid or expired token"))
			return
		}

		if sub, _ := claims.GetSubject(); sub != "" {
			c.Set("actor", sub)
			ctx := logctx.WithActor(c.Request.Context(), sub)
			if l, ok := c.Get(logctx.GinLoggerKey); ok {
				if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
					lg = lg.With("actor", sub)
					c.Set(logctx.GinLoggerKey, lg)
					ctx = logctx.WithLogger(ctx, lg)
				}
			}
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// Actor returns the authenticated subject, falling back to "system" when the
// request is unauthenticated.
func Actor(c *gin.Context) string {
	if v, ok := c.Get("actor"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "system"
}

// extractToken pulls the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return ""
}
