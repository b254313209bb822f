package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hypergigs/internal/config"
)

// frozen pins the limiter clock so refill never happens during a test.
func frozen(l *Limiter, at time.Time) {
	l.now = func() time.Time { return at }
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()
	frozen(limiter, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/v1/engagements/x", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 9-i, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/v1/engagements/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, float64(6*time.Second), float64(info.RetryAfter), float64(time.Millisecond))
	assert.True(t, info.ResetTime.After(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLimiter_Refill(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 1})
	defer limiter.Stop()

	frozen(limiter, start)
	allowed, _ := limiter.Allow("c", "/x", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	require.False(t, allowed)

	frozen(limiter, start.Add(time.Second))
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.True(t, allowed, "one token refills per second at 60/min")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/v1/auth/", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	})
	defer limiter.Stop()
	frozen(limiter, time.Now())

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/v1/auth/login", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
	}

	// Register shares the /v1/auth/ bucket with login.
	allowed, info := limiter.Allow("127.0.0.1", "/v1/auth/register", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 5, info.Limit)

	allowed, info = limiter.Allow("127.0.0.1", "/v1/engagements", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)

	allowed, _ = limiter.Allow("10.0.0.2", "/v1/auth/login", "POST")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET")
		require.True(t, allowed)
		allowed, _ = limiter.Allow("127.0.0.1", "/metrics", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()
	frozen(limiter, time.Now())

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		allowedCount int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowedCount)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	frozen(limiter, start)
	for i := 0; i < 4; i++ {
		limiter.Allow(fmt.Sprintf("127.0.0.%d", i+1), "/test", "GET")
	}

	frozen(limiter, start.Add(45*time.Minute))
	limiter.Allow("127.0.0.1", "/test", "GET")

	frozen(limiter, start.Add(100*time.Minute))
	limiter.cleanupBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	require.NotNil(t, limiter)
	defer limiter.Stop()

	allowed, info := limiter.Allow("127.0.0.1", "/test", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, CleanupInterval: time.Minute})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 10, AuthRequestsPerMinute: 7})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.DefaultLimit)
	assert.Equal(t, 10, cfg.DefaultBurst)

	auth := MatchEndpoint("/v1/auth/login", "POST", cfg.EndpointConfigs)
	require.NotNil(t, auth)
	assert.Equal(t, 7, auth.Limit)

	assert.False(t, ConfigFrom(config.RateLimitConfig{Enabled: false}).Enabled)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(10)

	tests := []struct {
		path, method string
		wantPath     string
		wantNil      bool
	}{
		{path: "/v1/auth/login", method: "POST", wantPath: "/v1/auth/"},
		{path: "/v1/transactions", method: "POST", wantPath: "/v1/transactions"},
		{path: "/v1/transactions/abc/complete", method: "POST", wantPath: "/v1/transactions/"},
		{path: "/v1/teams/abc/suggested-members", method: "GET", wantPath: "/v1/teams/"},
		{path: "/v1/transactions/abc", method: "GET", wantNil: true},
		{path: "/v1/engagements", method: "POST", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Equal(t, 0, health.Limit)
}
