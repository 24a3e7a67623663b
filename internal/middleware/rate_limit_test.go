package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kickoffhub/kickoffhub/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_AllowsRequestsWithinLimit(t *testing.T) {
	rl := NewRateLimiter()
	key := "test:within-limit"
	limit := 10

	for i := 0; i < limit; i++ {
		allowed := rl.Allow(key, limit)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl := NewRateLimiter()
	key := "test:over-limit"
	limit := 5

	for i := 0; i < limit; i++ {
		rl.Allow(key, limit)
	}

	assert.False(t, rl.Allow(key, limit), "request over limit should be blocked")
}

func TestRateLimiter_DifferentKeysHaveSeparateLimits(t *testing.T) {
	rl := NewRateLimiter()
	limit := 3

	for i := 0; i < limit; i++ {
		rl.Allow("key1", limit)
	}

	assert.False(t, rl.Allow("key1", limit), "key1 should be blocked")
	assert.True(t, rl.Allow("key2", limit), "key2 should still be allowed")
}

func TestRateLimitByIP_Returns429OverLimit(t *testing.T) {
	router := gin.New()
	router.GET("/ping", RateLimitByIP(2), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.1.1.1:1234"
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestRequireAuth_RejectsMissingAndBadTokens(t *testing.T) {
	m := auth.NewJWTManager("test-secret-test-secret-test-sec", time.Minute)
	router := gin.New()
	router.GET("/private", RequireAuth(m), func(c *gin.Context) {
		id, name, ok := GetCurrentUser(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "name": name})
	})

	// No header
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed header
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token
	token, err := m.Generate(7, "dave")
	assert.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dave")
}
