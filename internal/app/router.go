package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/transport/http/handler"
	"github.com/mandalnilabja/goatchat/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger *slog.Logger

	// AdminToken guards /api/admin routes; empty allows all
	AdminToken string
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)

	// Stateless gateway calls
	mux.HandleFunc("POST /v1/chat", repo.Proxy.Chat)
	mux.HandleFunc("GET /v1/providers", repo.Proxy.ListProviders)

	registerConversationRoutes(mux, repo)
	registerAdminRoutes(mux, repo, opts)

	// Root returns JSON status
	mux.HandleFunc("GET /", repo.Infra.RootStatus)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	// Request logging (if logger provided)
	if opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID (always applied)
	h = middleware.RequestID(h)

	// CORS (always applied for browser clients)
	h = middleware.CORS(h)

	return h
}

// registerConversationRoutes adds stored-conversation routes.
func registerConversationRoutes(mux *http.ServeMux, repo *handler.Repo) {
	c := repo.Conversations

	mux.HandleFunc("POST /v1/conversations", c.Create)
	mux.HandleFunc("GET /v1/conversations", c.List)
	mux.HandleFunc("GET /v1/conversations/{id}", c.Get)
	mux.HandleFunc("PATCH /v1/conversations/{id}", c.Update)
	mux.HandleFunc("DELETE /v1/conversations/{id}", c.Delete)
	mux.HandleFunc("POST /v1/conversations/{id}/messages", c.SendMessage)
	mux.HandleFunc("DELETE /v1/conversations/{id}/messages", c.Clear)
	mux.HandleFunc("GET /v1/conversations/{id}/export", c.Export)
}

// registerAdminRoutes adds all admin API routes to the router.
func registerAdminRoutes(mux *http.ServeMux, repo *handler.Repo, opts RouterOptions) {
	adminAuth := middleware.AdminAuth(opts.AdminToken)

	// Helper to wrap handler with admin auth
	withAuth := func(h http.HandlerFunc) http.Handler {
		return adminAuth(h)
	}

	// Credential management
	mux.Handle("POST /api/admin/credentials", withAuth(repo.Admin.CreateCredential))
	mux.Handle("GET /api/admin/credentials", withAuth(repo.Admin.ListCredentials))
	mux.Handle("GET /api/admin/credentials/{id}", withAuth(repo.Admin.GetCredential))
	mux.Handle("PUT /api/admin/credentials/{id}", withAuth(repo.Admin.UpdateCredential))
	mux.Handle("DELETE /api/admin/credentials/{id}", withAuth(repo.Admin.DeleteCredential))
	mux.Handle("POST /api/admin/credentials/{id}/default", withAuth(repo.Admin.SetDefaultCredential))

	// Request logs
	mux.Handle("GET /api/admin/logs", withAuth(repo.Admin.GetRequestLogs))
	mux.Handle("DELETE /api/admin/logs", withAuth(repo.Admin.DeleteRequestLogs))

	// System info
	mux.Handle("GET /api/admin/health", withAuth(repo.Admin.AdminHealth))
	mux.Handle("GET /api/admin/info", withAuth(repo.Admin.AdminInfo))
}
