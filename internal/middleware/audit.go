package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/teamfit/backend/pkg/logger"
)

// AuditLog records write operations (POST/PUT/PATCH/DELETE) to the
// structured log with the acting user and a masked body snippet.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		// Only audit write operations
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		// Capture request body (up to 2000 chars)
		var bodySnippet string
		if c.Request.Body != nil {
			bodyBytes, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
			bodySnippet = string(bodyBytes)
			if len(bodySnippet) > 2000 {
				bodySnippet = bodySnippet[:2000] + "...[truncated]"
			}
			bodySnippet = maskSensitiveFields(bodySnippet)
		}

		c.Next()

		logger.Info().
			Str("user_id", GetUserID(c)).
			Str("username", GetUsername(c)).
			Str("method", method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Str("body", bodySnippet).
			Bool("audit", true).
			Msg("write operation")
	}
}

// maskSensitiveFields replaces sensitive values in JSON body
func maskSensitiveFields(body string) string {
	sensitiveKeys := []string{"password", "secret", "token", "access_token"}
	lower := strings.ToLower(body)
	for _, key := range sensitiveKeys {
		if strings.Contains(lower, key) {
			body = maskJSONValue(body, key)
		}
	}
	return body
}

// maskJSONValue does a best-effort mask of JSON string values for a given key
func maskJSONValue(body, key string) string {
	lower := strings.ToLower(body)
	search := "\"" + key + "\""
	offset := 0
	for {
		idx := strings.Index(lower[offset:], search)
		if idx < 0 {
			return body
		}
		idx += offset
		rest := body[idx+len(search):]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			return body
		}
		valStart := idx + len(search) + colon + 1
		for valStart < len(body) && (body[valStart] == ' ' || body[valStart] == '\t') {
			valStart++
		}
		if valStart >= len(body) || body[valStart] != '"' {
			offset = idx + len(search)
			continue
		}
		valEnd := valStart + 1
		for valEnd < len(body) && body[valEnd] != '"' {
			if body[valEnd] == '\\' {
				valEnd++
			}
			valEnd++
		}
		if valEnd >= len(body) {
			return body
		}
		body = body[:valStart+1] + "***" + body[valEnd:]
		lower = strings.ToLower(body)
		offset = valStart + 4
	}
}
