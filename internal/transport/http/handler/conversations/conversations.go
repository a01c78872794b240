// Package conversations serves stored chats over HTTP.
package conversations

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
)

// defaultListLimit applies when a listing names no limit.
const defaultListLimit = 50

// Handlers holds the dependencies for conversation HTTP handlers.
type Handlers struct {
	Chat    *chat.Service
	Storage storage.ConversationStore
	Logger  *slog.Logger

	// Stream is the default when a send leaves stream unset.
	Stream bool
}

// New creates a new instance of conversation handlers.
func New(svc *chat.Service, store storage.ConversationStore, logger *slog.Logger, stream bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{Chat: svc, Storage: store, Logger: logger, Stream: stream}
}

// CreateRequest is the body of POST /v1/conversations.
type CreateRequest struct {
	Title    string `json:"title,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// UpdateRequest is the body of PATCH /v1/conversations/{id}.
type UpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Provider *string `json:"provider,omitempty"`
	Model    *string `json:"model,omitempty"`
}

// Create handles POST /v1/conversations.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	conv, err := h.Chat.NewConversation(req.Title, req.Provider, req.Model)
	if err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}
	shared.WriteJSON(w, conv, http.StatusCreated)
}

// List handles GET /v1/conversations?q=&limit=&offset=.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	filter := storage.ConversationFilter{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit: defaultListLimit,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	convs, err := h.Storage.ListConversations(filter)
	if err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}
	if convs == nil {
		convs = []*storage.Conversation{}
	}

	shared.WriteJSON(w, map[string]any{
		"conversations": convs,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	}, http.StatusOK)
}

// Get handles GET /v1/conversations/{id}.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := h.Storage.GetConversation(r.PathValue("id"))
	if err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}
	shared.WriteJSON(w, conv, http.StatusOK)
}

// Update handles PATCH /v1/conversations/{id}: rename and rebind.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req UpdateRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Title != nil {
		if err := h.Storage.RenameConversation(id, *req.Title); err != nil {
			shared.WriteError(w, err, "conversation")
			return
		}
	}
	if req.Provider != nil || req.Model != nil {
		var providerID, model string
		if req.Provider != nil {
			providerID = *req.Provider
		}
		if req.Model != nil {
			model = *req.Model
		}
		if _, err := h.Chat.SetModel(id, providerID, model); err != nil {
			shared.WriteError(w, err, "conversation")
			return
		}
	}

	h.Get(w, r)
}

// Delete handles DELETE /v1/conversations/{id}.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Storage.DeleteConversation(r.PathValue("id")); err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /v1/conversations/{id}/messages.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Storage.ClearConversation(r.PathValue("id")); err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
