package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gigbook/internal/identity"
	"gigbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Ctx key and helpers for the authenticated principal.
// Using unexported type to avoid collisions.

type ctxKey string

const principalKey ctxKey = "principal"

func ContextWithPrincipal(ctx context.Context, p identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	v := ctx.Value(principalKey)
	if v == nil {
		return identity.Principal{}, false
	}
	p, ok := v.(identity.Principal)
	return p, ok
}

// CORS middleware for handling cross-origin requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger middleware for structured request logging
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if p, ok := PrincipalFromContext(c.Request.Context()); ok {
			logFields = append(logFields, "user_id", p.UserID, "role", p.Role)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		}
	}
}

// Recovery middleware for recovering from panics with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, models.Response{
				Success: false,
				Error:   "Internal server error",
			})
		}
	})
}

// Claims carried by the auth provider's tokens. Token issuing lives outside
// this service; we only verify and extract.
type Claims struct {
	Role     string `json:"role"`
	BookerID *int64 `json:"booker_id,omitempty"`
	ArtistID *int64 `json:"artist_id,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and stores the principal in the request
// context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Error:   "Missing bearer token",
			})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Error:   "Invalid token",
			})
			return
		}

		var userID int64
		if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Error:   "Invalid token subject",
			})
			return
		}

		p := identity.Principal{
			UserID:   userID,
			Role:     models.Role(claims.Role),
			BookerID: claims.BookerID,
			ArtistID: claims.ArtistID,
		}

		c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole aborts with 403 unless the principal's role is one of roles.
// Admin passes everywhere.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		p, ok := PrincipalFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Error:   "Unauthorized",
			})
			return
		}
		if p.Role != models.RoleAdmin && !allowed[p.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Response{
				Success: false,
				Error:   "Forbidden for role " + string(p.Role),
			})
			return
		}
		c.Next()
	}
}
