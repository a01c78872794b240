package conversations

import (
	"bytes"
	"mime"
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
)

// Export handles GET /v1/conversations/{id}/export?format=json|txt.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = chat.FormatJSON
	}
	if format != chat.FormatJSON && format != chat.FormatText {
		shared.WriteJSONError(w, "format must be json or txt", http.StatusBadRequest)
		return
	}

	conv, err := h.Storage.GetConversation(r.PathValue("id"))
	if err != nil {
		shared.WriteError(w, err, "conversation")
		return
	}

	var buf bytes.Buffer
	if err := chat.Export(&buf, conv, format); err != nil {
		shared.WriteJSONError(w, "Failed to export conversation: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", chat.ContentType(format))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": chat.ExportFilename(conv, format),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
