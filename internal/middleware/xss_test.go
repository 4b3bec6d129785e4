// internal/middleware/xss_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"plain text untouched", "red shirt", "red shirt"},
		{"script tag stripped", `<script>alert(1)</script>hi`, "alert(1)hi"},
		{"markup escaped", "1 < 2", "1 &lt; 2"},
		{"mixed case script", `<SCRIPT src=x></sCrIpT>ok`, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, SanitizeInput(tt.in))
		})
	}
}

func TestXSSFilterSanitizesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	r := gin.New()
	r.Use(XSSFilter())
	r.GET("/search", func(c *gin.Context) {
		seen = c.Query("q")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/search?q=%3Cscript%3Ealert(1)%3C/script%3Eshoes", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alert(1)shoes", seen)
}
