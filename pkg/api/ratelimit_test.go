package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Zeeeepa/airweave/pkg/auth"
)

// startRedis spins up a Redis container and returns a connected client.
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRateLimiterFixedWindow(t *testing.T) {
	client := startRedis(t)
	limiter := NewRateLimiter(client, 3)
	ctx := context.Background()

	for i, wantRemaining := range []int{2, 1, 0} {
		result, err := limiter.Allow(ctx, "org-a")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 3, result.Limit)
		assert.Equal(t, wantRemaining, result.Remaining)
		assert.Zero(t, result.RetryAfter)
	}

	result, err := limiter.Allow(ctx, "org-a")
	require.NoError(t, err)
	assert.False(t, result.Allowed, "request over quota should be denied")
	assert.Equal(t, 0, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, time.Minute)

	// Quotas are tracked per organization.
	other, err := limiter.Allow(ctx, "org-b")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
	assert.Equal(t, 2, other.Remaining)
}

// rateLimitProbe mounts the rate limit middleware behind a fake identity.
func rateLimitProbe(s *Server, orgID string) *gin.Engine {
	engine := gin.New()
	engine.GET("/probe",
		func(c *gin.Context) {
			if orgID != "" {
				c.Set(contextKeyRequestContext, &auth.RequestContext{
					RequestID:    "test-request",
					Method:       auth.MethodAPIKey,
					Organization: auth.Organization{ID: orgID, Name: "Org"},
				})
			}
			c.Next()
		},
		s.rateLimitMiddleware(),
		func(c *gin.Context) {
			c.Status(http.StatusOK)
		},
	)
	return engine
}

func TestRateLimitMiddleware(t *testing.T) {
	client := startRedis(t)
	s := &Server{rateLimiter: NewRateLimiter(client, 2)}
	engine := rateLimitProbe(s, "org-quota")

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d within quota", i+1)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	// Nothing listens here; every redis call fails.
	unreachable := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = unreachable.Close() })

	s := &Server{rateLimiter: NewRateLimiter(unreachable, 1)}
	engine := rateLimitProbe(s, "org-failopen")

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusOK, rec.Code, "redis outage must not reject requests")
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	s := &Server{}

	t.Run("nil limiter passes through", func(t *testing.T) {
		engine := rateLimitProbe(s, "org-nolimit")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unauthenticated request passes through", func(t *testing.T) {
		client := startRedis(t)
		limited := &Server{rateLimiter: NewRateLimiter(client, 1)}
		engine := rateLimitProbe(limited, "")
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/probe", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}
