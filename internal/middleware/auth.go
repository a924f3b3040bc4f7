package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"pos-admin-gateway/internal/logging"
	"pos-admin-gateway/internal/models"
)

// AuthMiddleware requires "Authorization: Bearer <secret>" on every request.
// An empty secret rejects everything.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				slog.Warn("Authentication failed: missing bearer token",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"request_id", requestID(r.Context()))
				writeUnauthorized(w)
				return
			}

			if !isValidSecret(secret, token) {
				slog.Warn("Authentication failed: invalid bearer token",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"provided_key", logging.MaskSecret(token),
					"request_id", requestID(r.Context()))
				writeUnauthorized(w)
				return
			}

			slog.Debug("Authentication successful", "remote_addr", r.RemoteAddr)
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token of a Bearer authorization header
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isValidSecret(secret, token string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(token)) == 1
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.UnauthorizedResponse{Error: "Unauthorized"})
}

// writeErrorResponse writes the {success:false, message} envelope
func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Success: false,
		Message: message,
	})
}
