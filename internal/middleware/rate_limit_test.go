package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-admin-gateway/internal/config"
	"pos-admin-gateway/internal/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(t *testing.T, typ RateLimitType) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(RateLimitConfig{
		Enabled:           true,
		Type:              typ,
		RequestsPerMinute: 60,
		Burst:             3,
	}, clock.Now)
	t.Cleanup(rl.Stop)
	return rl, clock
}

func TestRateLimiter_IPBasedLimiting(t *testing.T) {
	rl, clock := newTestLimiter(t, RateLimitTypeIP)

	for i := 0; i < 3; i++ {
		allowed, info := rl.IsAllowed("192.168.1.1")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3-i-1, info.Remaining)
		assert.Equal(t, 60, info.Limit)
	}

	allowed, info := rl.IsAllowed("192.168.1.1")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.True(t, info.ResetTime.After(clock.Now()))

	allowed, _ = rl.IsAllowed("192.168.1.2")
	assert.True(t, allowed, "other clients have their own bucket")

	clock.Advance(time.Second)
	allowed, _ = rl.IsAllowed("192.168.1.1")
	assert.True(t, allowed, "one token refills per second at 60/min")
}

func TestRateLimiter_GlobalLimiting(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitTypeGlobal)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		allowed, _ := rl.IsAllowed(ip)
		require.True(t, allowed)
	}

	allowed, _ := rl.IsAllowed("10.0.0.4")
	assert.False(t, allowed)
}

func TestRateLimiter_BothUsesTightestBucket(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitTypeBoth)

	allowed, _ := rl.IsAllowed("10.0.0.1")
	require.True(t, allowed)
	allowed, _ = rl.IsAllowed("10.0.0.1")
	require.True(t, allowed)

	// the new client has a full bucket but the global one has a single token left
	allowed, info := rl.IsAllowed("10.0.0.2")
	assert.True(t, allowed)
	assert.Equal(t, 0, info.Remaining)

	allowed, _ = rl.IsAllowed("10.0.0.3")
	assert.False(t, allowed)
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: false, Type: RateLimitTypeIP, RequestsPerMinute: 1, Burst: 1})
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := rl.IsAllowed("10.0.0.1")
		assert.True(t, allowed)
		assert.Equal(t, -1, info.Limit)
	}
}

func TestRateLimiter_ResetAndEvict(t *testing.T) {
	rl, clock := newTestLimiter(t, RateLimitTypeIP)

	for i := 0; i < 4; i++ {
		rl.IsAllowed("10.0.0.1")
	}
	allowed, _ := rl.IsAllowed("10.0.0.1")
	require.False(t, allowed)

	rl.ResetRateLimits()
	allowed, _ = rl.IsAllowed("10.0.0.1")
	assert.True(t, allowed)

	assert.Equal(t, 0, rl.evictIdle(clock.Now().Add(time.Minute)))
	assert.Equal(t, 1, rl.evictIdle(clock.Now().Add(idleClientTTL+time.Second)))
	assert.Equal(t, 0, rl.GetRateLimitStats()["active_ip_limits"])
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Enabled: true, Type: RateLimitTypeIP, RequestsPerMinute: 60, Burst: 1})
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, RateLimitTypeIP)
	handler := RateLimitMiddleware(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := send("/api/products")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := send("/api/products")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "Rate limit exceeded")

	assert.Equal(t, http.StatusOK, send("/health").Code, "health is never limited")
}

func TestParseRateLimitConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		expect RateLimitConfig
	}{
		{
			name:   "defaults",
			cfg:    config.Config{},
			expect: RateLimitConfig{Enabled: true, Type: RateLimitTypeIP, RequestsPerMinute: 300, Burst: 30},
		},
		{
			name: "explicit",
			cfg: config.Config{
				RateLimitEnabled:           "off",
				RateLimitType:              "BOTH",
				RateLimitRequestsPerMinute: "120",
				RateLimitBurst:             "5",
			},
			expect: RateLimitConfig{Enabled: false, Type: RateLimitTypeBoth, RequestsPerMinute: 120, Burst: 5},
		},
		{
			name: "invalid values fall back",
			cfg: config.Config{
				RateLimitEnabled:           "maybe",
				RateLimitType:              "per-user",
				RateLimitRequestsPerMinute: "-4",
				RateLimitBurst:             "lots",
			},
			expect: RateLimitConfig{Enabled: true, Type: RateLimitTypeIP, RequestsPerMinute: 300, Burst: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			assert.Equal(t, tt.expect, ParseRateLimitConfig(&cfg))
		})
	}
}
