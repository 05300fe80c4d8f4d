package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"chatbot-backend/config"
	"chatbot-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString("username"),
			"role":     c.GetString("role"),
		})
	})
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	config.JWTSecret = "test-secret"
	r := jwtRouter()

	token, err := services.GenerateJWT(1, "alice", "admin")
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestJWTAuthMiddlewareRejectsBadRequests(t *testing.T) {
	config.JWTSecret = "test-secret"
	r := jwtRouter()

	// No header
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)

	// Not bearer format
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)

	// Token signed with a different secret
	token, err := services.GenerateJWT(1, "alice", "admin")
	require.NoError(t, err)
	config.JWTSecret = "rotated-secret"
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+token).Code)
}
