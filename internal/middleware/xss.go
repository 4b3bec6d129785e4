// internal/middleware/xss.go
package middleware

import (
	"html"
	"regexp"

	"github.com/gin-gonic/gin"
)

var scriptPattern = regexp.MustCompile(`(?i)<\s*/?\s*script[^>]*>`)

// SanitizeInput strips script tags and HTML-escapes angle brackets in a
// user supplied string. Values are sanitized, never rejected, so legitimate
// input containing "<" survives in escaped form.
func SanitizeInput(value string) string {
	cleaned := scriptPattern.ReplaceAllString(value, "")
	if cleaned != value || containsMarkup(cleaned) {
		return html.EscapeString(cleaned)
	}
	return cleaned
}

func containsMarkup(value string) bool {
	for _, r := range value {
		if r == '<' || r == '>' {
			return true
		}
	}
	return false
}

// XSSFilter sanitizes query string values in place before handlers see
// them. JSON bodies are bound into typed structs and rendered escaped by
// the client, so only the raw query surface is rewritten here.
func XSSFilter() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		changed := false
		for key, values := range query {
			for i, value := range values {
				sanitized := SanitizeInput(value)
				if sanitized != value {
					values[i] = sanitized
					changed = true
				}
			}
			query[key] = values
		}
		if changed {
			c.Request.URL.RawQuery = query.Encode()
		}
		c.Next()
	}
}
