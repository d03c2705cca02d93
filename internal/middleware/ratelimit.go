package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adscope/tiktok-bridge/internal/config"
	"github.com/adscope/tiktok-bridge/internal/logging"
	"github.com/adscope/tiktok-bridge/internal/metrics"
	"github.com/adscope/tiktok-bridge/internal/tiktok"
)

// Throttling policy names. Each policy tracks its own window per client;
// exhausting one bucket does not touch the others.
const (
	PolicyGeneral   = "general"
	PolicyAuth      = "auth"
	PolicyUpload    = "upload"
	PolicyAnalytics = "analytics"
)

// CounterStore is the shared expiring-counter backend for rate limiting
type CounterStore interface {
	IncrementRateLimit(ctx context.Context, policy, clientID string, window time.Duration) (int64, error)
}

// RateLimiter enforces fixed-window request budgets per client identity
type RateLimiter struct {
	store    CounterStore
	logger   *logging.Logger
	policies map[string]config.RateLimitPolicy
}

// NewRateLimiter creates a rate limiter with the configured policies
func NewRateLimiter(store CounterStore, logger *logging.Logger, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		store:  store,
		logger: logger,
		policies: map[string]config.RateLimitPolicy{
			PolicyGeneral:   cfg.General,
			PolicyAuth:      cfg.Auth,
			PolicyUpload:    cfg.Upload,
			PolicyAnalytics: cfg.Analytics,
		},
	}
}

// Limit returns middleware enforcing the named policy. The counter is
// incremented before the check; the (max+1)-th request inside a window is
// rejected with 429. When the store is unreachable the request is allowed
// through (fail open) so a Redis outage cannot take the dashboard down.
func (rl *RateLimiter) Limit(policy string) gin.HandlerFunc {
	rule, ok := rl.policies[policy]
	if !ok {
		// Route registration bug; a zero-value rule would reject everything
		panic(fmt.Sprintf("unknown rate limit policy %q", policy))
	}

	return func(c *gin.Context) {
		clientID := c.ClientIP()

		count, err := rl.store.IncrementRateLimit(c.Request.Context(), policy, clientID, rule.Window)
		if err != nil {
			metrics.RateLimitStoreErrorsTotal.Inc()
			rl.logger.WithError(err).Warnf("rate limit store unavailable, allowing request (policy %s)", policy)
			c.Next()
			return
		}

		if count > rule.Max {
			metrics.RateLimitRejectionsTotal.WithLabelValues(policy).Inc()
			rl.logger.LogRateLimitRejection(policy, clientID, count)

			rlErr := tiktok.NewRateLimitError("too many requests, please try again later")
			c.JSON(http.StatusTooManyRequests, rlErr)
			c.Abort()
			return
		}

		c.Next()
	}
}
