package admin

import (
	"net/http"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
)

// createCredentialBody is the POST /api/admin/credentials payload.
type createCredentialBody struct {
	Provider  string `json:"provider"`
	Name      string `json:"name"`
	APIKey    string `json:"api_key"`
	IsDefault bool   `json:"is_default"`
}

// updateCredentialBody is a partial update; nil fields are left unchanged.
type updateCredentialBody struct {
	Provider  *string `json:"provider,omitempty"`
	Name      *string `json:"name,omitempty"`
	APIKey    *string `json:"api_key,omitempty"`
	IsDefault *bool   `json:"is_default,omitempty"`
}

// CreateCredential handles POST /api/admin/credentials.
func (h *Handlers) CreateCredential(w http.ResponseWriter, r *http.Request) {
	var req createCredentialBody
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Provider = strings.ToLower(strings.TrimSpace(req.Provider))
	if req.Provider == "" || req.Name == "" || req.APIKey == "" {
		shared.WriteJSONError(w, "provider, name, and api_key are required", http.StatusBadRequest)
		return
	}
	if !h.knownProvider(req.Provider) {
		shared.WriteJSONError(w, "unknown provider: "+req.Provider, http.StatusBadRequest)
		return
	}

	cred := &storage.Credential{
		Provider:  req.Provider,
		Name:      req.Name,
		APIKey:    req.APIKey,
		IsDefault: req.IsDefault,
	}

	if err := h.Storage.CreateCredential(cred); err != nil {
		shared.WriteError(w, err, "credential")
		return
	}
	h.invalidateCredentials()

	shared.WriteJSON(w, cred.ToPreview(), http.StatusCreated)
}

// UpdateCredential handles PUT /api/admin/credentials/{id}.
func (h *Handlers) UpdateCredential(w http.ResponseWriter, r *http.Request) {
	cred, err := h.Storage.GetCredential(r.PathValue("id"))
	if err != nil {
		shared.WriteError(w, err, "credential")
		return
	}

	var req updateCredentialBody
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Provider != nil {
		provider := strings.ToLower(strings.TrimSpace(*req.Provider))
		if !h.knownProvider(provider) {
			shared.WriteJSONError(w, "unknown provider: "+provider, http.StatusBadRequest)
			return
		}
		cred.Provider = provider
	}
	if req.Name != nil {
		cred.Name = *req.Name
	}
	if req.APIKey != nil {
		cred.APIKey = *req.APIKey
	}
	if req.IsDefault != nil {
		cred.IsDefault = *req.IsDefault
	}

	if err := h.Storage.UpdateCredential(cred); err != nil {
		shared.WriteError(w, err, "credential")
		return
	}
	h.invalidateCredentials()

	shared.WriteJSON(w, cred.ToPreview(), http.StatusOK)
}

// DeleteCredential handles DELETE /api/admin/credentials/{id}.
func (h *Handlers) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := h.Storage.DeleteCredential(r.PathValue("id")); err != nil {
		shared.WriteError(w, err, "credential")
		return
	}
	h.invalidateCredentials()

	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultCredential handles POST /api/admin/credentials/{id}/default.
func (h *Handlers) SetDefaultCredential(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.Storage.SetDefaultCredential(id); err != nil {
		shared.WriteError(w, err, "credential")
		return
	}
	h.invalidateCredentials()

	cred, err := h.Storage.GetCredential(id)
	if err != nil {
		shared.WriteError(w, err, "credential")
		return
	}
	shared.WriteJSON(w, cred.ToPreview(), http.StatusOK)
}
