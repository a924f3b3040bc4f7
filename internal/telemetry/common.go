package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

const (
	ExporterScraper = "scraper"
	ExporterGRPC    = "grpc"
	ExporterNone    = "none"
)

// Telemetry owns the meter provider and, for the scraper exporter, the
// /metrics HTTP server
type Telemetry struct {
	server   *http.Server
	Provider *metric.MeterProvider
}

// InitMetrics installs a global meter provider for the chosen exporter.
// "scraper" serves Prometheus text on addr, "grpc" pushes OTLP to
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT, "none" keeps the no-op provider.
func InitMetrics(ctx context.Context, exporter, addr string) (*Telemetry, error) {
	t := &Telemetry{}

	switch exporter {
	case ExporterNone, "":
		slog.Info("Metrics export disabled")
		return t, nil
	case ExporterGRPC:
		slog.Info("Starting metrics with grpc exporter")
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating grpc metrics exporter: %w", err)
		}
		t.Provider = metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(exp)))
	case ExporterScraper:
		slog.Info("Starting metrics with scraper exporter", "addr", addr)
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("creating prometheus exporter: %w", err)
		}
		t.Provider = metric.NewMeterProvider(metric.WithReader(exp))
		t.serveMetrics(addr)
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", exporter)
	}

	otel.SetMeterProvider(t.Provider)
	return t, nil
}

// serveMetrics runs the scrape endpoint in the background
func (t *Telemetry) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	t.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Serving metrics", "address", addr+"/metrics")
		if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server exited", "error", err)
		}
	}()
}

// Close flushes pending metrics and stops the scrape server
func (t *Telemetry) Close(ctx context.Context) {
	if t.server != nil {
		if err := t.server.Shutdown(ctx); err != nil {
			slog.Warn("Metrics server shutdown failed", "error", err)
		}
	}
	if t.Provider != nil {
		if err := t.Provider.Shutdown(ctx); err != nil {
			slog.Warn("Meter provider shutdown failed", "error", err)
		}
	}
}
