package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"pos-admin-gateway/internal/netutil"

	"golang.org/x/time/rate"
)

// RateLimitType defines the type of rate limiting
type RateLimitType string

const (
	RateLimitTypeIP     RateLimitType = "ip"
	RateLimitTypeGlobal RateLimitType = "global"
	RateLimitTypeBoth   RateLimitType = "both"
)

// idleClientTTL is how long an unused per-IP bucket is kept
const idleClientTTL = 3 * time.Minute

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	Type              RateLimitType
	RequestsPerMinute int
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP plus a shared global one
type RateLimiter struct {
	config        RateLimitConfig
	clients       map[string]*clientLimiter
	global        *rate.Limiter
	mutex         sync.Mutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

// RateLimitInfo contains rate limit information for response headers
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetTime time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return newRateLimiter(config, time.Now)
}

func newRateLimiter(config RateLimitConfig, now func() time.Time) *RateLimiter {
	rl := &RateLimiter{
		config:      config,
		clients:     make(map[string]*clientLimiter),
		stopCleanup: make(chan struct{}),
		now:         now,
	}
	rl.global = rl.newBucket()

	rl.cleanupTicker = time.NewTicker(time.Minute)
	go rl.cleanupIdleClients()

	slog.Info("Rate limiter initialized",
		"enabled", config.Enabled,
		"type", config.Type,
		"requests_per_minute", config.RequestsPerMinute,
		"burst", config.Burst)

	return rl
}

func (rl *RateLimiter) newBucket() *rate.Limiter {
	perSecond := rate.Limit(float64(rl.config.RequestsPerMinute) / 60)
	return rate.NewLimiter(perSecond, rl.config.Burst)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTicker.Stop()
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) cleanupIdleClients() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.evictIdle(rl.now())
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	evicted := 0
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > idleClientTTL {
			delete(rl.clients, ip)
			evicted++
		}
	}
	if evicted > 0 {
		slog.Debug("Evicted idle rate limit buckets", "count", evicted)
	}
	return evicted
}

// IsAllowed checks if a request from clientIP may proceed. For "both" the
// more restrictive bucket decides the reported info.
func (rl *RateLimiter) IsAllowed(clientIP string) (bool, *RateLimitInfo) {
	if !rl.config.Enabled {
		return true, &RateLimitInfo{Limit: -1, Remaining: -1}
	}

	now := rl.now()
	var ipAllowed, globalAllowed = true, true
	var ipInfo, globalInfo *RateLimitInfo

	if rl.config.Type == RateLimitTypeIP || rl.config.Type == RateLimitTypeBoth {
		lim := rl.clientBucket(clientIP, now)
		ipAllowed = lim.AllowN(now, 1)
		ipInfo = rl.infoFor(lim, now)
	}

	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		lim := rl.globalBucket()
		globalAllowed = lim.AllowN(now, 1)
		globalInfo = rl.infoFor(lim, now)
	}

	switch rl.config.Type {
	case RateLimitTypeBoth:
		info := ipInfo
		if globalInfo.Remaining < ipInfo.Remaining {
			info = globalInfo
		}
		return ipAllowed && globalAllowed, info
	case RateLimitTypeGlobal:
		return globalAllowed, globalInfo
	default:
		return ipAllowed, ipInfo
	}
}

func (rl *RateLimiter) clientBucket(clientIP string, now time.Time) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	c, ok := rl.clients[clientIP]
	if !ok {
		c = &clientLimiter{limiter: rl.newBucket()}
		rl.clients[clientIP] = c
	}
	c.lastSeen = now
	return c.limiter
}

func (rl *RateLimiter) globalBucket() *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.global
}

// infoFor reports the whole tokens left and when the next one is due
func (rl *RateLimiter) infoFor(lim *rate.Limiter, now time.Time) *RateLimitInfo {
	tokens := lim.TokensAt(now)
	info := &RateLimitInfo{
		Limit:     rl.config.RequestsPerMinute,
		Remaining: max(int(math.Floor(tokens)), 0),
	}
	if tokens < 1 && lim.Limit() > 0 {
		wait := time.Duration((1 - tokens) / float64(lim.Limit()) * float64(time.Second))
		info.ResetTime = now.Add(wait)
	} else {
		info.ResetTime = now
	}
	return info
}

// RateLimitMiddleware creates a rate limiting middleware using an existing rate limiter
func RateLimitMiddleware(rateLimiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := netutil.ClientIP(r)
			allowed, info := rateLimiter.IsAllowed(clientIP)

			setRateLimitHeaders(w, info)

			if !allowed {
				slog.Warn("Rate limit exceeded",
					"client_ip", clientIP,
					"path", r.URL.Path,
					"method", r.Method,
					"limit", info.Limit,
					"reset_time", info.ResetTime.Format(time.RFC3339),
					"request_id", requestID(r.Context()))

				writeRateLimitErrorResponse(w, info)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets rate limit headers in the response
func setRateLimitHeaders(w http.ResponseWriter, info *RateLimitInfo) {
	if info.Limit < 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	if !info.ResetTime.IsZero() {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// writeRateLimitErrorResponse writes a rate limit exceeded error response
func writeRateLimitErrorResponse(w http.ResponseWriter, info *RateLimitInfo) {
	retryAfter := int(math.Ceil(time.Until(info.ResetTime).Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))

	writeErrorResponse(w, http.StatusTooManyRequests,
		fmt.Sprintf("Rate limit exceeded (%d requests per minute). Please try again later.", info.Limit))
}

// GetRateLimitStats returns current rate limiting statistics
func (rl *RateLimiter) GetRateLimitStats() map[string]interface{} {
	rl.mutex.Lock()
	active := len(rl.clients)
	rl.mutex.Unlock()

	stats := map[string]interface{}{
		"enabled":             rl.config.Enabled,
		"type":                string(rl.config.Type),
		"requests_per_minute": rl.config.RequestsPerMinute,
		"burst":               rl.config.Burst,
		"active_ip_limits":    active,
	}

	if rl.config.Type == RateLimitTypeGlobal || rl.config.Type == RateLimitTypeBoth {
		stats["global_tokens_remaining"] = rl.infoFor(rl.globalBucket(), rl.now()).Remaining
	}

	return stats
}

// ResetRateLimits drops every bucket, refilling all clients
func (rl *RateLimiter) ResetRateLimits() {
	rl.mutex.Lock()
	rl.clients = make(map[string]*clientLimiter)
	rl.global = rl.newBucket()
	rl.mutex.Unlock()

	slog.Info("Rate limits reset")
}
