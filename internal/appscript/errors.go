package appscript

import "errors"

var (
	// ErrMissingConfiguration means APPS_SCRIPT_URL is unset
	ErrMissingConfiguration = errors.New("apps script URL is not configured")
	// ErrRemoteUnavailable covers transport failures and non-2xx answers
	// that carry no usable rejection
	ErrRemoteUnavailable = errors.New("apps script is unavailable")
	// ErrInvalidRemoteResponse means the answer was not JSON, or JSON that
	// could not be decoded
	ErrInvalidRemoteResponse = errors.New("apps script returned an invalid response")
)

// RejectedError is returned when the script answered {"success": false}
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "apps script rejected the request"
	}
	return "apps script rejected the request: " + e.Message
}

// Outcome labels used for call metrics
const (
	OutcomeOK              = "ok"
	OutcomeRejected        = "rejected"
	OutcomeInvalidResponse = "invalid_response"
	OutcomeUnavailable     = "unavailable"
	OutcomeNotConfigured   = "not_configured"
)

// outcomeOf maps a Call error to its metric label
func outcomeOf(err error) string {
	var rejected *RejectedError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &rejected):
		return OutcomeRejected
	case errors.Is(err, ErrInvalidRemoteResponse):
		return OutcomeInvalidResponse
	case errors.Is(err, ErrMissingConfiguration):
		return OutcomeNotConfigured
	default:
		return OutcomeUnavailable
	}
}
