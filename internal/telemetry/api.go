package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pos-admin-gateway"

// GatewayTelemetry holds the instruments for inbound requests and outbound
// Apps Script calls
type GatewayTelemetry struct {
	meter metric.Meter

	requestCounter    metric.Int64Counter
	errorCounter      metric.Int64Counter
	durationHistogram metric.Float64Histogram

	remoteCallCounter       metric.Int64Counter
	remoteDurationHistogram metric.Float64Histogram
}

// RequestMetrics contains the telemetry data for one inbound request
type RequestMetrics struct {
	Method       string
	Endpoint     string
	StatusCode   int
	Duration     time.Duration
	ClientIPType string
}

// NewGatewayTelemetry creates an uninitialized instance; every Register
// call is a no-op until InitializeTelemetry succeeds
func NewGatewayTelemetry() *GatewayTelemetry {
	return &GatewayTelemetry{}
}

// InitializeTelemetry creates the instruments. A nil meter uses the global
// provider.
func (t *GatewayTelemetry) InitializeTelemetry(meter metric.Meter) error {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	t.meter = meter

	var err error

	t.requestCounter, err = meter.Int64Counter(
		"gateway_requests_total",
		metric.WithDescription("Total number of successful API requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	t.errorCounter, err = meter.Int64Counter(
		"gateway_errors_total",
		metric.WithDescription("Total number of API requests answered with status >= 400"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create error counter: %w", err)
	}

	t.durationHistogram, err = meter.Float64Histogram(
		"gateway_request_duration_seconds",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	t.remoteCallCounter, err = meter.Int64Counter(
		"apps_script_calls_total",
		metric.WithDescription("Total number of calls made to the Apps Script backend"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create remote call counter: %w", err)
	}

	t.remoteDurationHistogram, err = meter.Float64Histogram(
		"apps_script_call_duration_seconds",
		metric.WithDescription("Duration of Apps Script calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create remote duration histogram: %w", err)
	}

	slog.Info("Gateway telemetry initialized")
	return nil
}

func (m RequestMetrics) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("method", m.Method),
		attribute.String("endpoint", m.Endpoint),
		attribute.Int("status_code", m.StatusCode),
	}
	if m.ClientIPType != "" {
		attrs = append(attrs, attribute.String("client_ip_type", m.ClientIPType))
	}
	return attrs
}

// RegisterRequest records a finished request in the success or error
// counter and always in the duration histogram
func (t *GatewayTelemetry) RegisterRequest(ctx context.Context, m RequestMetrics) {
	if t.requestCounter == nil {
		return
	}
	attrs := metric.WithAttributes(m.attributes()...)

	if m.StatusCode >= 400 {
		t.errorCounter.Add(ctx, 1, attrs)
	} else {
		t.requestCounter.Add(ctx, 1, attrs)
	}
	t.durationHistogram.Record(ctx, m.Duration.Seconds(), attrs)

	slog.Debug("Recorded API request",
		"method", m.Method,
		"endpoint", m.Endpoint,
		"status_code", m.StatusCode,
		"duration_ms", m.Duration.Milliseconds())
}

// ObserveRemoteCall records one Apps Script round trip. outcome is one of
// the appscript outcome labels (ok, rejected, invalid_response, ...).
func (t *GatewayTelemetry) ObserveRemoteCall(ctx context.Context, entity, action, outcome string, d time.Duration) {
	if t.remoteCallCounter == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
	t.remoteCallCounter.Add(ctx, 1, attrs)
	t.remoteDurationHistogram.Record(ctx, d.Seconds(), attrs)
}

// NormalizeClientIP categorizes client IPs to control cardinality
func NormalizeClientIP(clientIP string) string {
	if clientIP == "" {
		return "unknown"
	}

	ip := net.ParseIP(clientIP)
	if ip == nil {
		return "invalid"
	}

	switch {
	case ip.IsLoopback():
		return "localhost"
	case ip.IsPrivate(), ip.IsLinkLocalUnicast():
		return "internal"
	default:
		return "external"
	}
}
