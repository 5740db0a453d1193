package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUserID(c)+"|"+c.GetString(ContextUserRole))
	})
	r.GET("/admin", AuthMiddleware(testSecret), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"missing header", "/me", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "/me", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
		{"wrong secret", "/me", "Bearer " + signToken(t, "other", "a1", "artist", time.Hour), http.StatusUnauthorized, ""},
		{"expired", "/me", "Bearer " + signToken(t, testSecret, "a1", "artist", -time.Minute), http.StatusUnauthorized, ""},
		{"no subject", "/me", "Bearer " + signToken(t, testSecret, "", "artist", time.Hour), http.StatusUnauthorized, ""},
		{"valid", "/me", "Bearer " + signToken(t, testSecret, "a1", "artist", time.Hour), http.StatusOK, "a1|artist"},
		{"artist on admin route", "/admin", "Bearer " + signToken(t, testSecret, "a1", "artist", time.Hour), http.StatusForbidden, ""},
		{"admin on admin route", "/admin", "Bearer " + signToken(t, testSecret, "root", "admin", time.Hour), http.StatusNoContent, ""},
	}

	r := authRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Fatalf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}
