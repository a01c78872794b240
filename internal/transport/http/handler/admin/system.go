package admin

import (
	"net/http"
	"runtime"
	"time"

	"github.com/mandalnilabja/goatchat/internal/config"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatchat/internal/version"
)

// AdminHealth handles GET /api/admin/health.
func (h *Handlers) AdminHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "connected"

	// Check database connectivity by listing credentials
	if _, err := h.Storage.ListCredentials(); err != nil {
		status = "degraded"
		dbStatus = "error: " + err.Error()
	}

	shared.WriteJSON(w, map[string]any{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// AdminInfo handles GET /api/admin/info.
func (h *Handlers) AdminInfo(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.StartTime)

	creds, _ := h.Storage.ListCredentials()
	convs, _ := h.Storage.ListConversations(storage.ConversationFilter{})

	var providers []string
	if lister, ok := h.Registry.(interface{ IDs() []string }); ok {
		providers = lister.IDs()
	}

	shared.WriteJSON(w, map[string]any{
		"version":     version.Version,
		"go_version":  runtime.Version(),
		"uptime":      uptime.String(),
		"uptime_secs": int64(uptime.Seconds()),
		"data_dir":    config.DataDir(),
		"providers":   providers,
		"stats": map[string]any{
			"total_credentials":   len(creds),
			"total_conversations": len(convs),
		},
	}, http.StatusOK)
}
