package middleware

import (
	"log/slog"
	"strconv"
	"strings"

	"pos-admin-gateway/internal/config"
)

const (
	defaultRequestsPerMinute = 300
	defaultBurst             = 30
)

// ParseRateLimitConfig parses rate limiting configuration from the config struct
func ParseRateLimitConfig(cfg *config.Config) RateLimitConfig {
	rateLimitConfig := RateLimitConfig{
		Enabled:           parseBool(cfg.RateLimitEnabled, true),
		Type:              parseRateLimitType(cfg.RateLimitType),
		RequestsPerMinute: parseInt(cfg.RateLimitRequestsPerMinute, defaultRequestsPerMinute),
		Burst:             parseInt(cfg.RateLimitBurst, defaultBurst),
	}

	if rateLimitConfig.RequestsPerMinute <= 0 {
		slog.Warn("Invalid rate limit requests per minute, using default",
			"configured", cfg.RateLimitRequestsPerMinute, "default", defaultRequestsPerMinute)
		rateLimitConfig.RequestsPerMinute = defaultRequestsPerMinute
	}

	if rateLimitConfig.Burst <= 0 {
		slog.Warn("Invalid rate limit burst, using default",
			"configured", cfg.RateLimitBurst, "default", defaultBurst)
		rateLimitConfig.Burst = defaultBurst
	}

	slog.Info("Rate limiting configuration parsed",
		"enabled", rateLimitConfig.Enabled,
		"type", rateLimitConfig.Type,
		"requests_per_minute", rateLimitConfig.RequestsPerMinute,
		"burst", rateLimitConfig.Burst)

	return rateLimitConfig
}

// parseBool parses a string to bool with a default value
func parseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on", "enabled":
		return true
	case "false", "0", "no", "off", "disabled":
		return false
	default:
		slog.Warn("Invalid boolean value, using default",
			"value", value, "default", defaultValue)
		return defaultValue
	}
}

// parseInt parses a string to int with a default value
func parseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Invalid integer value, using default",
			"value", value, "default", defaultValue, "error", err)
		return defaultValue
	}

	return parsed
}

// parseRateLimitType parses the rate limit type with validation
func parseRateLimitType(value string) RateLimitType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ip":
		return RateLimitTypeIP
	case "global":
		return RateLimitTypeGlobal
	case "both":
		return RateLimitTypeBoth
	default:
		slog.Warn("Invalid rate limit type, using default",
			"value", value, "default", "ip")
		return RateLimitTypeIP
	}
}
