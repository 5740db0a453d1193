package middleware

import (
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"

	"github.com/annazecevic/catalog-service/logger"
	"github.com/gin-gonic/gin"
)

// MaxRequestBytes leaves room for a 10MB cover plus multipart framing.
const MaxRequestBytes = 11 << 20

var (
	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)union\s+select`),
		regexp.MustCompile(`(?i)insert\s+into`),
		regexp.MustCompile(`(?i)delete\s+from`),
		regexp.MustCompile(`(?i)drop\s+table`),
		regexp.MustCompile(`(?i)';\s*--`),
		regexp.MustCompile(`(?i)\bor\s+1\s*=\s*1\b`),
	}
	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)onerror\s*=`),
		regexp.MustCompile(`(?i)onload\s*=`),
		regexp.MustCompile(`(?i)<iframe`),
	}
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Next()
	}
}

// ValidateRequest rejects bodies with an unexpected content type or over
// MaxRequestBytes.
func ValidateRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if !strings.Contains(contentType, "application/json") &&
				!strings.Contains(contentType, "multipart/form-data") {
				logger.Warn(logger.EventValidationFailure, "Unsupported content type", logger.Fields(
					"content_type", contentType,
					"path", c.FullPath(),
				))
				abort(c, http.StatusUnsupportedMediaType, "VALIDATION_ERROR",
					"invalid content type, expected application/json or multipart/form-data")
				return
			}
		}

		if c.Request.ContentLength > MaxRequestBytes {
			abort(c, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR",
				fmt.Sprintf("request body too large, maximum %d bytes allowed", MaxRequestBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)

		c.Next()
	}
}

func SanitizeString(input string) string {
	return strings.TrimSpace(html.EscapeString(input))
}

func CheckSQLInjectionPatterns(input string) bool {
	for _, p := range sqlInjectionPatterns {
		if p.MatchString(input) {
			return true
		}
	}
	return false
}

func CheckXSSPatterns(input string) bool {
	for _, p := range xssPatterns {
		if p.MatchString(input) {
			return true
		}
	}
	return false
}
