package types

import (
	"encoding/json"
	"net/http"
)

// APIError is the JSON error body returned by the HTTP surface.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Status  int    `json:"status,omitempty"`
}

// Error type constants
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeServer         = "server_error"
)

// NewAPIError creates a new API error.
func NewAPIError(message, errType string) *APIError {
	return &APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errType,
		},
	}
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(err)
}

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(message, ErrorTypeInvalidRequest)
}

// FromGatewayError converts a gateway failure into an HTTP status and body.
// Upstream statuses are passed through; transport failures become 502.
func FromGatewayError(ge *GatewayError) (int, *APIError) {
	status := http.StatusBadGateway
	switch ge.Kind {
	case KindHTTPStatus:
		if ge.StatusCode >= 400 {
			status = ge.StatusCode
		}
	case KindConfig:
		status = http.StatusBadRequest
	}

	return status, &APIError{
		Error: ErrorDetail{
			Message: ge.Error(),
			Type:    string(ge.Kind),
			Status:  ge.StatusCode,
		},
	}
}
