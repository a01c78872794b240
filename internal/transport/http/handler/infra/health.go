package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatchat/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		shared.WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}
	shared.WriteJSON(w, map[string]any{
		"name":    "goatchat",
		"version": version.Version,
		"status":  "running",
		"api":     "/v1",
		"admin":   "/api/admin",
	}, http.StatusOK)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"status":      "active",
		"app":         "goatchat",
		"uptime_secs": int64(time.Since(h.StartTime).Seconds()),
	}, http.StatusOK)
}
