// Package shared holds response helpers used by every handler package.
package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 4 << 20

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes a JSON error response.
func WriteJSONError(w http.ResponseWriter, message string, status int) {
	WriteJSON(w, map[string]any{
		"error": map[string]any{
			"message": message,
			"code":    status,
		},
	}, status)
}

// WriteGatewayError writes a gateway failure with its mapped status.
func WriteGatewayError(w http.ResponseWriter, ge *types.GatewayError) {
	status, body := types.FromGatewayError(ge)
	types.WriteError(w, status, body)
}

// WriteError maps storage sentinels to HTTP statuses. what names the
// missing resource in 404 messages.
func WriteError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteJSONError(w, what+" not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidInput):
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrDuplicateKey):
		WriteJSONError(w, err.Error(), http.StatusConflict)
	default:
		if ge, ok := types.AsGatewayError(err); ok {
			WriteGatewayError(w, ge)
			return
		}
		WriteJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

// DecodeJSON reads a size-limited JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
