// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmerce/storefront/internal/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"customer_id": c.GetString("customer_id"),
			"role":        c.GetString("role"),
		})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"customer_id": c.GetString("customer_id")})
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	r := authTestRouter()

	w := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateJWT(uuid.New(), "shopper@example.com", "customer", "DEFAULT", 1)
	require.NoError(t, err)

	w = doRequest(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer")
}

func TestAuthRequiredRejectsWrongScheme(t *testing.T) {
	r := authTestRouter()

	token, err := utils.GenerateJWT(uuid.New(), "shopper@example.com", "customer", "DEFAULT", 1)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired(t *testing.T) {
	r := authTestRouter()

	customerToken, err := utils.GenerateJWT(uuid.New(), "shopper@example.com", "customer", "DEFAULT", 1)
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT(uuid.New(), "admin@example.com", "admin", "DEFAULT", 1)
	require.NoError(t, err)

	w := doRequest(r, "/admin", customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r := authTestRouter()

	// Anonymous requests pass through
	w := doRequest(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)

	// A bad token is ignored rather than rejected
	w = doRequest(r, "/open", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)

	customerID := uuid.New()
	token, err := utils.GenerateJWT(customerID, "shopper@example.com", "customer", "DEFAULT", 1)
	require.NoError(t, err)

	w = doRequest(r, "/open", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), customerID.String())
}
