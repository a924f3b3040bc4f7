package gateway

import (
	"net/http"
	"strings"
)

// RejectionStatus maps a script rejection message to an HTTP status. Only
// the literal "not found" is recognized; everything else is a bad request.
func RejectionStatus(message string) int {
	if strings.Contains(message, "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
