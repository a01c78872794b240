package chat

import (
	"fmt"
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// Remediation returns a user-facing explanation of err with a suggested
// next step.
func Remediation(err error) string {
	if err == nil {
		return ""
	}

	ge, ok := types.AsGatewayError(err)
	if !ok {
		return fallback(err)
	}

	switch ge.Kind {
	case types.KindHTTPStatus:
		switch ge.StatusCode {
		case http.StatusUnauthorized:
			return "Authentication failed. Please check your API key configuration."
		case http.StatusTooManyRequests:
			return "Rate limit exceeded. Please wait a moment and try again, or switch to a different model."
		case http.StatusForbidden:
			return "Access denied. This model may not be available with your current plan. Try switching to a different model."
		case http.StatusNotFound:
			return "Model not found. Please try switching to a different model."
		case http.StatusInternalServerError:
			return "Server error occurred. Please try again in a moment or switch to a different model."
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return "Service temporarily unavailable. Please try again or switch to a different model."
		}
	case types.KindNetwork:
		return "Network connection error. Please check your internet connection and try again."
	case types.KindStreamUnavailable:
		return "The provider did not return a readable stream. Try again with streaming disabled."
	}

	return fallback(err)
}

func fallback(err error) string {
	return fmt.Sprintf("Error occurred: %v. Try switching to a different model or try again.", err)
}
