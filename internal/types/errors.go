package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every failure the gateway surfaces.
type ErrorKind string

// Error kinds
const (
	KindHTTPStatus        ErrorKind = "http_status"
	KindNetwork           ErrorKind = "network"
	KindStreamUnavailable ErrorKind = "stream_unavailable"
	KindDecode            ErrorKind = "decode"
	KindConfig            ErrorKind = "config"
)

// GatewayError is the only error type returned by the gateway.
type GatewayError struct {
	Kind     ErrorKind
	Provider string

	// StatusCode and Body are set for KindHTTPStatus.
	StatusCode int
	Body       string

	Err error
}

func (e *GatewayError) Error() string {
	prefix := "gateway"
	if e.Provider != "" {
		prefix += " " + e.Provider
	}

	switch e.Kind {
	case KindHTTPStatus:
		msg := fmt.Sprintf("%s: HTTP %d: %s", prefix, e.StatusCode, http.StatusText(e.StatusCode))
		if e.Body != "" {
			msg += " - " + e.Body
		}
		return msg
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", prefix, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s", prefix, e.Kind)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewHTTPStatusError creates a KindHTTPStatus error.
func NewHTTPStatusError(provider string, code int, body string) *GatewayError {
	return &GatewayError{Kind: KindHTTPStatus, Provider: provider, StatusCode: code, Body: body}
}

// NewNetworkError creates a KindNetwork error.
func NewNetworkError(provider string, err error) *GatewayError {
	return &GatewayError{Kind: KindNetwork, Provider: provider, Err: err}
}

// NewStreamUnavailableError creates a KindStreamUnavailable error.
func NewStreamUnavailableError(provider string) *GatewayError {
	return &GatewayError{Kind: KindStreamUnavailable, Provider: provider, Err: errors.New("stream reader not available")}
}

// NewDecodeError creates a KindDecode error.
func NewDecodeError(provider string, err error) *GatewayError {
	return &GatewayError{Kind: KindDecode, Provider: provider, Err: err}
}

// NewConfigError creates a KindConfig error.
func NewConfigError(provider string, err error) *GatewayError {
	return &GatewayError{Kind: KindConfig, Provider: provider, Err: err}
}

// AsGatewayError unwraps err into a *GatewayError.
func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

// IsKind reports whether err is a GatewayError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ge, ok := AsGatewayError(err)
	return ok && ge.Kind == kind
}
