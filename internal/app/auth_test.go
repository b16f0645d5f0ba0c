package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(staticTokens []string, jwtSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(staticTokens, jwtSecret))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthRouter([]string{"token-a"}, "")
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadFormat(t *testing.T) {
	r := newAuthRouter([]string{"token-a"}, "")
	w := doRequest(r, "token-a")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_StaticToken(t *testing.T) {
	r := newAuthRouter([]string{"token-a", "token-b"}, "")
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer token-b").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer nope").Code)
}

func TestAuthMiddleware_JWT(t *testing.T) {
	secret := "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	r := newAuthRouter(nil, secret)
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+signed).Code)

	wrong, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer "+wrong).Code)
}

func TestAuthMiddleware_JWTFallsBackToStaticTokens(t *testing.T) {
	r := newAuthRouter([]string{"token-a"}, "some-secret")
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer token-a").Code)
}
