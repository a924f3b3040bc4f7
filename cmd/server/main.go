package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-admin-gateway/internal/appscript"
	"pos-admin-gateway/internal/config"
	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/handlers"
	"pos-admin-gateway/internal/middleware"
	"pos-admin-gateway/internal/telemetry"

	"github.com/gorilla/mux"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg := config.LoadConfig()

	slog.Info("Starting POS admin gateway", "version", "1.0.0")

	ctx := context.Background()
	otelTelemetry, err := telemetry.InitMetrics(ctx, cfg.MetricsExporter, cfg.MetricsAddr)
	if err != nil {
		slog.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	gatewayTelemetry := telemetry.NewGatewayTelemetry()
	if err := gatewayTelemetry.InitializeTelemetry(nil); err != nil {
		slog.Error("Failed to initialize gateway telemetry", "error", err)
		os.Exit(1)
	}
	slog.Info("Gateway telemetry initialized successfully")

	client := appscript.NewClient(appscript.Config{
		URL:               cfg.AppsScriptURL,
		Secret:            cfg.AppsScriptSecret,
		Timeout:           cfg.RemoteTimeout(),
		RequestsPerSecond: cfg.RemoteRequestsPerSecond(),
	}, gatewayTelemetry)
	gw := gateway.NewGateway(client)

	rateLimiter := middleware.NewRateLimiter(middleware.ParseRateLimitConfig(cfg))

	r := buildRouter(cfg, gw, rateLimiter, gatewayTelemetry)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server ready to accept connections", "address", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	rateLimiter.Stop()
	otelTelemetry.Close(shutdownCtx)
	slog.Info("Server exited")
}

// buildRouter wires middleware and routes. Outer to inner: request id,
// access log, panic recovery, metrics, rate limit; /api adds the bearer check.
func buildRouter(cfg *config.Config, gw *gateway.Gateway, rateLimiter *middleware.RateLimiter, t *telemetry.GatewayTelemetry) *mux.Router {
	entities := handlers.Entities()

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(nil))
	r.Use(middleware.Recover)
	r.Use(telemetry.NewTelemetryMiddleware(t).Middleware)
	r.Use(middleware.RateLimitMiddleware(rateLimiter))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.APISecret))

	handlers.RegisterRoutes(r, api, handlers.Set{
		Entity:    handlers.NewEntityHandler(gw, entities, cfg.PageLimit()),
		Export:    handlers.NewExportHandler(gw, entities),
		Karyawan:  handlers.NewKaryawanHandler(gw, cfg.KaryawanLimit()),
		RateLimit: handlers.NewRateLimitStatusHandler(rateLimiter),
		Health:    handlers.NewHealthHandler(cfg.AppsScriptURL != ""),
	}, entities)

	slog.Debug("Available endpoints",
		"entity_routes", []string{
			"GET /api/{entity}",
			"POST /api/{entity}",
			"GET /api/{entity}/export",
			"GET|PUT|DELETE /api/{entity}/{id}",
		},
		"entities", handlers.EntityPattern(entities),
		"karyawan_routes", []string{
			"GET /api/karyawan/products?branch_name=",
			"POST /api/karyawan/transactions",
		},
		"system_endpoints", []string{
			"GET /health",
			"GET /api/rate-limit/status",
		})

	return r
}
