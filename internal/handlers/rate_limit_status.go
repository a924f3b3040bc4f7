package handlers

import (
	"log/slog"
	"net/http"

	"pos-admin-gateway/internal/middleware"
)

// RateLimitStatusHandler handles rate limiting status requests
type RateLimitStatusHandler struct {
	rateLimiter *middleware.RateLimiter
}

// NewRateLimitStatusHandler creates a new rate limit status handler
func NewRateLimitStatusHandler(rateLimiter *middleware.RateLimiter) *RateLimitStatusHandler {
	return &RateLimitStatusHandler{
		rateLimiter: rateLimiter,
	}
}

// GetRateLimitStatus handles GET /api/rate-limit/status
func (h *RateLimitStatusHandler) GetRateLimitStatus(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "Rate limiter not available")
		return
	}

	stats := h.rateLimiter.GetRateLimitStats()
	slog.Debug("Rate limit status retrieved", "active_ip_limits", stats["active_ip_limits"])

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Rate limit status",
		"data":    stats,
	})
}
