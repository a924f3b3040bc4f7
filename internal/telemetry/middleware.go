package telemetry

import (
	"net/http"
	"time"

	"pos-admin-gateway/internal/netutil"

	"github.com/gorilla/mux"
)

// TelemetryMiddleware wraps HTTP handlers to automatically collect telemetry
type TelemetryMiddleware struct {
	telemetry *GatewayTelemetry
}

// NewTelemetryMiddleware creates a new telemetry middleware
func NewTelemetryMiddleware(telemetry *GatewayTelemetry) *TelemetryMiddleware {
	return &TelemetryMiddleware{
		telemetry: telemetry,
	}
}

// Middleware returns the HTTP middleware function
func (tm *TelemetryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapper, r)

		tm.telemetry.RegisterRequest(r.Context(), RequestMetrics{
			Method:       r.Method,
			Endpoint:     EndpointFromRequest(r),
			StatusCode:   wrapper.statusCode,
			Duration:     time.Since(start),
			ClientIPType: NormalizeClientIP(netutil.ClientIP(r)),
		})
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// EndpointFromRequest returns the matched route template (for example
// /api/{entity}/{id}) so ids never become metric labels
func EndpointFromRequest(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
