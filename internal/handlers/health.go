package handlers

import (
	"net/http"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	remoteConfigured bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(remoteConfigured bool) *HealthHandler {
	return &HealthHandler{remoteConfigured: remoteConfigured}
}

// Health handles GET /health. It never calls the Apps Script.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":                 "healthy",
		"apps_script_configured": h.remoteConfigured,
	})
}
