package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// Claims carries the artist id in the subject and the platform role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Errors: []dto.ErrorItem{{Message: message, Code: code}}})
}

// AuthMiddleware validates an HS256 bearer token and stores the caller's id
// and role on the context. Each limiter then takes a token from the caller's
// own bucket.
func AuthMiddleware(jwtSecret string, limiters ...*RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Security(logger.EventInvalidToken, "Missing authorization header", logger.Fields("ip", c.ClientIP()))
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Security(logger.EventInvalidToken, "Invalid authorization header format", logger.Fields("ip", c.ClientIP()))
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				logger.Security(logger.EventExpiredToken, "Access attempt with expired token", logger.Fields("ip", c.ClientIP()))
			} else {
				logger.Security(logger.EventInvalidToken, "Access attempt with invalid token", logger.Fields("ip", c.ClientIP()))
			}
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		if claims.Subject == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject in token")
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserRole, claims.Role)

		for _, rl := range limiters {
			if !rl.allow(c) {
				return
			}
		}
		c.Next()
	}
}

func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != requiredRole {
			logger.Security(logger.EventAccessDenied, "Role check failed", logger.Fields(
				"user_id", c.GetString(ContextUserID),
				"required_role", requiredRole,
				"ip", c.ClientIP(),
			))
			abort(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware(domain.RoleAdmin)
}

// CurrentUserID returns the authenticated caller, or "" outside AuthMiddleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
