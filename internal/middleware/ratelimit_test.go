package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adscope/tiktok-bridge/internal/cache"
	"github.com/adscope/tiktok-bridge/internal/config"
	"github.com/adscope/tiktok-bridge/internal/logging"
)

func setupRateLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)

	store, err := cache.NewStore(mr.Host(), mr.Server().Addr().Port, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger, err := logging.NewDefaultLogger()
	require.NoError(t, err)

	rl := NewRateLimiter(store, logger, config.RateLimitConfig{
		General:   config.RateLimitPolicy{Window: 15 * time.Minute, Max: 100},
		Auth:      config.RateLimitPolicy{Window: time.Minute, Max: 2},
		Upload:    config.RateLimitPolicy{Window: time.Minute, Max: 3},
		Analytics: config.RateLimitPolicy{Window: 15 * time.Minute, Max: 30},
	})

	return rl, mr
}

func performRequest(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	rl, mr := setupRateLimiter(t)
	defer mr.Close()

	router := gin.New()
	router.GET("/login", rl.Limit(PolicyAuth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Budget of 2: first two pass
	for i := 0; i < 2; i++ {
		w := performRequest(router, "/login")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// The (max+1)-th request inside the window is rejected
	w := performRequest(router, "/login")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT")
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl, mr := setupRateLimiter(t)
	defer mr.Close()

	router := gin.New()
	router.GET("/login", rl.Limit(PolicyAuth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		performRequest(router, "/login")
	}
	assert.Equal(t, http.StatusTooManyRequests, performRequest(router, "/login").Code)

	// After the window elapses the counter resets
	mr.FastForward(2 * time.Minute)

	assert.Equal(t, http.StatusOK, performRequest(router, "/login").Code)
}

func TestRateLimiterPoliciesIndependent(t *testing.T) {
	rl, mr := setupRateLimiter(t)
	defer mr.Close()

	router := gin.New()
	router.GET("/login", rl.Limit(PolicyAuth), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/upload", rl.Limit(PolicyUpload), func(c *gin.Context) { c.Status(http.StatusOK) })

	// Exhaust the auth budget
	for i := 0; i < 3; i++ {
		performRequest(router, "/login")
	}
	assert.Equal(t, http.StatusTooManyRequests, performRequest(router, "/login").Code)

	// The upload budget for the same client is untouched
	assert.Equal(t, http.StatusOK, performRequest(router, "/upload").Code)
}

func TestRateLimiterUnknownPolicyPanics(t *testing.T) {
	rl, mr := setupRateLimiter(t)
	defer mr.Close()

	// A misspelled policy name must fail at route registration, not
	// silently reject every request with a zero budget
	assert.PanicsWithValue(t, `unknown rate limit policy "uploads"`, func() {
		rl.Limit("uploads")
	})
}

func TestRateLimiterFailsOpenOnStoreOutage(t *testing.T) {
	rl, mr := setupRateLimiter(t)

	router := gin.New()
	router.GET("/login", rl.Limit(PolicyAuth), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Take the counter store down; requests must still get through
	mr.Close()

	assert.Equal(t, http.StatusOK, performRequest(router, "/login").Code)
}
