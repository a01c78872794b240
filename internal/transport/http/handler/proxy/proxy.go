// Package proxy serves stateless chat calls straight through the gateway.
package proxy

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// Sender dispatches a conversation. *gateway.Gateway satisfies it.
type Sender interface {
	Send(ctx context.Context, messages []types.ChatMessage, opts types.SendOptions, onDelta func(string)) (string, error)
}

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	Gateway Sender
	Router  *provider.Router
	Logs    storage.RequestLogStore
	Logger  *slog.Logger

	// Stream is the default when a request leaves stream unset.
	Stream bool
}

// New creates a new instance of proxy handlers. logs may be nil.
func New(gw Sender, router *provider.Router, logs storage.RequestLogStore, logger *slog.Logger, stream bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		Gateway: gw,
		Router:  router,
		Logs:    logs,
		Logger:  logger,
		Stream:  stream,
	}
}

// bearerCredential extracts an explicit vendor key from the Authorization
// header. Empty means the configured default is used.
func bearerCredential(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if key, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(key)
	}
	return ""
}

// logRequest records the call; failures only reach the debug log.
func (h *Handlers) logRequest(requestID string, route provider.Route, streaming bool, elapsed time.Duration, err error) {
	if h.Logs == nil {
		return
	}

	entry := &storage.RequestLog{
		RequestID:   requestID,
		Provider:    route.ProviderID,
		Model:       route.Model,
		IsStreaming: streaming,
		StatusCode:  http.StatusOK,
		DurationMs:  elapsed.Milliseconds(),
	}
	if err != nil {
		entry.StatusCode = 0
		entry.ErrorMessage = err.Error()
		if ge, ok := types.AsGatewayError(err); ok {
			entry.StatusCode = ge.StatusCode
			entry.ErrorKind = string(ge.Kind)
		}
	}

	if lerr := h.Logs.LogRequest(entry); lerr != nil {
		h.Logger.Debug("failed to record request", "request_id", requestID, "error", lerr)
	}
}
