package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"milano/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.GenerateToken(7, "a@b.uz", role, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": utils.CurrentUserID(c), "role": utils.CurrentRole(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, target, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware(secret, utils.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/x", "Bearer nope").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/x", "Bearer "+token(t, utils.RoleCustomer)).Code)

	w := do(r, "/x", "Bearer "+token(t, utils.RoleAdmin))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":7,"role":"admin"}`, w.Body.String())
}

func TestAuthMiddleware_AnyRole(t *testing.T) {
	r := newEngine(AuthMiddleware(secret))
	assert.Equal(t, http.StatusOK, do(r, "/x", "Bearer "+token(t, utils.RoleCustomer)).Code)

	other, err := utils.GenerateToken(7, "", utils.RoleAdmin, "other-secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/x", "Bearer "+other).Code)
}

func TestWSAuthMiddleware(t *testing.T) {
	r := newEngine(WSAuthMiddleware(secret, utils.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/x", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/x?token="+token(t, utils.RoleAdmin), "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/x", "Bearer "+token(t, utils.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/x?token="+token(t, utils.RoleCustomer), "").Code)
}

func TestRateLimiter(t *testing.T) {
	r := newEngine(NewRateLimiter(0.001, 2).Handler())

	assert.Equal(t, http.StatusOK, do(r, "/x", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/x", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/x", "").Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := newEngine(NewRateLimiter(0, 0).Handler())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(r, "/x", "").Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := newEngine(CORSMiddleware([]string{"https://milano.uz"}))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://milano.uz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://milano.uz", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
