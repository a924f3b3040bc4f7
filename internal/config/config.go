package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"pos-admin-gateway/internal/logging"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	LogLevel    string
	Environment string

	// Apps Script backend
	AppsScriptURL       string
	AppsScriptSecret    string
	AppsScriptTimeout   string
	AppsScriptRateLimit string

	// Inbound bearer secret shared with the dashboard
	APISecret string

	// Pagination
	DefaultPageLimit string
	KaryawanMaxLimit string

	// Inbound rate limiting
	RateLimitEnabled           string
	RateLimitType              string
	RateLimitRequestsPerMinute string
	RateLimitBurst             string

	// Metrics
	MetricsExporter string
	MetricsAddr     string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() *Config {
	// Existing environment variables win over .env entries
	err := godotenv.Load()
	if err != nil {
		slog.Warn("Could not load .env file, continuing with system environment variables only", "error", err)
	} else {
		slog.Info("Successfully loaded .env file")
	}

	apiSecret := getEnvWithDefault("API_SECRET", os.Getenv("NEXT_PUBLIC_API_SECRET"))

	config := &Config{
		Port:                       getEnvWithDefault("PORT", "8080"),
		LogLevel:                   getEnvWithDefault("LOG_LEVEL", "info"),
		Environment:                getEnvWithDefault("ENVIRONMENT", "development"),
		AppsScriptURL:              os.Getenv("APPS_SCRIPT_URL"),
		AppsScriptSecret:           getEnvWithDefault("APPS_SCRIPT_SECRET", apiSecret),
		AppsScriptTimeout:          getEnvWithDefault("APPS_SCRIPT_TIMEOUT", "30s"),
		AppsScriptRateLimit:        getEnvWithDefault("APPS_SCRIPT_RATE_LIMIT", "0"),
		APISecret:                  apiSecret,
		DefaultPageLimit:           getEnvWithDefault("DEFAULT_PAGE_LIMIT", "10"),
		KaryawanMaxLimit:           getEnvWithDefault("KARYAWAN_MAX_LIMIT", "100"),
		RateLimitEnabled:           getEnvWithDefault("RATE_LIMIT_ENABLED", "true"),
		RateLimitType:              getEnvWithDefault("RATE_LIMIT_TYPE", "ip"),
		RateLimitRequestsPerMinute: getEnvWithDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", "300"),
		RateLimitBurst:             getEnvWithDefault("RATE_LIMIT_BURST", "30"),
		MetricsExporter:            getEnvWithDefault("METRICS_EXPORTER", "scraper"),
		MetricsAddr:                getEnvWithDefault("METRICS_ADDR", ":9080"),
	}

	logging.SetupLogging(config.LogLevel)

	slog.Info("Configuration loaded",
		"port", config.Port,
		"environment", config.Environment,
		"logLevel", config.LogLevel,
		"appsScriptConfigured", config.AppsScriptURL != "",
		"appsScriptSecret", logging.MaskSecret(config.AppsScriptSecret),
		"appsScriptTimeout", config.AppsScriptTimeout,
		"appsScriptRateLimit", config.AppsScriptRateLimit,
		"apiSecretConfigured", config.APISecret != "",
		"defaultPageLimit", config.DefaultPageLimit,
		"karyawanMaxLimit", config.KaryawanMaxLimit,
		"rateLimitEnabled", config.RateLimitEnabled,
		"rateLimitType", config.RateLimitType,
		"metricsExporter", config.MetricsExporter)

	if config.APISecret == "" {
		slog.Warn("API_SECRET is not set; every /api request will be rejected")
	}

	return config
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RemoteTimeout parses AppsScriptTimeout. Zero means no client-side timeout.
func (c *Config) RemoteTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.AppsScriptTimeout))
	if err != nil || d < 0 {
		slog.Warn("Invalid APPS_SCRIPT_TIMEOUT, using default",
			"configured", c.AppsScriptTimeout, "default", "30s")
		return 30 * time.Second
	}
	return d
}

// RemoteRequestsPerSecond parses AppsScriptRateLimit. Zero means unlimited.
func (c *Config) RemoteRequestsPerSecond() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(c.AppsScriptRateLimit), 64)
	if err != nil || v < 0 {
		slog.Warn("Invalid APPS_SCRIPT_RATE_LIMIT, disabling outbound throttle",
			"configured", c.AppsScriptRateLimit)
		return 0
	}
	return v
}

// PageLimit returns the default page size for list routes
func (c *Config) PageLimit() int {
	return positiveInt(c.DefaultPageLimit, 10)
}

// KaryawanLimit returns both the default and the maximum page size of the
// employee product listing
func (c *Config) KaryawanLimit() int {
	return positiveInt(c.KaryawanMaxLimit, 100)
}

func positiveInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
