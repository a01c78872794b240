package admin

import (
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
)

// ListCredentials handles GET /api/admin/credentials. Keys are masked.
func (h *Handlers) ListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.Storage.ListCredentials()
	if err != nil {
		shared.WriteJSONError(w, "Failed to list credentials: "+err.Error(), http.StatusInternalServerError)
		return
	}

	previews := make([]*storage.CredentialPreview, len(creds))
	for i, cred := range creds {
		previews[i] = cred.ToPreview()
	}

	shared.WriteJSON(w, map[string]any{"credentials": previews}, http.StatusOK)
}

// GetCredential handles GET /api/admin/credentials/{id}.
func (h *Handlers) GetCredential(w http.ResponseWriter, r *http.Request) {
	cred, err := h.Storage.GetCredential(r.PathValue("id"))
	if err != nil {
		shared.WriteError(w, err, "credential")
		return
	}

	shared.WriteJSON(w, cred.ToPreview(), http.StatusOK)
}
