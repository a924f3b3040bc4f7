package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"pos-admin-gateway/internal/appscript"
	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/models"
)

// Fixed messages for failures whose detail must not reach the client
const (
	msgNotConfigured   = "Apps Script URL is not configured"
	msgInvalidResponse = "Invalid response from Apps Script"
	msgInternal        = "Internal server error"
)

// writeJSONResponse is a helper function to write JSON responses
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeErrorResponse is a helper function to write error responses
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, models.ErrorResponse{
		Success: false,
		Message: message,
	})
}

// writeGatewayError maps a gateway or client error to its HTTP answer
func writeGatewayError(w http.ResponseWriter, r *http.Request, entity, action string, err error) {
	var rejected *appscript.RejectedError

	switch {
	case errors.As(err, &rejected):
		status := gateway.RejectionStatus(rejected.Message)
		slog.Info("Apps Script rejected request",
			"entity", entity,
			"action", action,
			"status", status,
			"message", rejected.Message,
			"remote_addr", r.RemoteAddr)
		writeErrorResponse(w, status, rejected.Message)

	case errors.Is(err, appscript.ErrMissingConfiguration):
		slog.Error("Apps Script URL is not configured", "entity", entity, "action", action)
		writeErrorResponse(w, http.StatusInternalServerError, msgNotConfigured)

	case errors.Is(err, appscript.ErrInvalidRemoteResponse):
		slog.Error("Invalid response from Apps Script", "entity", entity, "action", action, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, msgInvalidResponse)

	default:
		slog.Error("Gateway call failed", "entity", entity, "action", action, "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, msgInternal)
	}
}
