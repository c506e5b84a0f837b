package api

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Zeeeepa/airweave/pkg/services"
)

// RateLimiter enforces a fixed-window per-organization request quota
// backed by Redis. A nil limiter disables rate limiting.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing requestsPerMinute requests per
// organization per minute.
func NewRateLimiter(client *redis.Client, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  requestsPerMinute,
		window: time.Minute,
	}
}

// RateLimitResult reports the outcome of one quota check.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Allow consumes one request from the organization's current window.
// The window id is baked into the key, so the TTL only garbage-collects
// expired windows.
func (r *RateLimiter) Allow(ctx context.Context, orgID string) (*RateLimitResult, error) {
	windowID := time.Now().Unix() / int64(r.window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%d", orgID, windowID)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	result := &RateLimitResult{
		Allowed: count <= r.limit,
		Limit:   r.limit,
	}
	if remaining := r.limit - count; remaining > 0 {
		result.Remaining = remaining
	}
	if !result.Allowed {
		windowEnd := time.Unix((windowID+1)*int64(r.window.Seconds()), 0)
		result.RetryAfter = time.Until(windowEnd)
		if result.RetryAfter < time.Second {
			result.RetryAfter = time.Second
		}
	}
	return result, nil
}

// rateLimitMiddleware enforces the per-organization quota. Redis failures
// fail open: the request proceeds without quota accounting.
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.rateLimiter == nil {
			c.Next()
			return
		}

		reqCtx := requestContext(c)
		if reqCtx == nil {
			c.Next()
			return
		}

		result, err := s.rateLimiter.Allow(c.Request.Context(), reqCtx.Organization.ID)
		if err != nil {
			slog.Warn("Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Round(time.Second).Seconds())))
			respondServiceError(c, services.ErrRateLimited)
			return
		}

		c.Next()
	}
}
