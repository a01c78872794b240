package conversations

import (
	"errors"
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// SendRequest is the body of POST /v1/conversations/{id}/messages.
type SendRequest struct {
	Content     string   `json:"content"`
	Stream      *bool    `json:"stream,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// SendResponse carries the stored assistant reply, and the failure when
// the provider call did not succeed.
type SendResponse struct {
	Message *storage.Message   `json:"message"`
	Error   *types.ErrorDetail `json:"error,omitempty"`
}

// Delta is one streamed event.
type Delta struct {
	Delta string `json:"delta"`
}

// SendMessage handles POST /v1/conversations/{id}/messages. An empty
// content retries the conversation's pending user turn. Streaming replies
// are {"delta": ...} events, then the stored message, then [DONE].
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req SendRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stream := h.Stream
	if req.Stream != nil {
		stream = *req.Stream
	}
	params := chat.SendParams{
		Stream:      stream,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if !stream {
		msg, err := h.Chat.Send(r.Context(), id, req.Content, params, nil)
		h.writeResult(w, msg, err)
		return
	}

	sse := shared.NewSSE(w)
	var writeErr error
	msg, err := h.Chat.Send(r.Context(), id, req.Content, params, func(delta string) {
		if writeErr == nil {
			writeErr = sse.Event(Delta{Delta: delta})
		}
	})
	if writeErr != nil {
		h.Logger.Debug("client stream closed", "conversation_id", id, "error", writeErr)
		return
	}
	if !sse.Started() {
		h.writeResult(sse.Writer(), msg, err)
		return
	}

	_ = sse.Event(sendResponse(msg, err))
	if err == nil {
		_ = sse.Done()
	}
}

// writeResult answers a completed send. A failed provider call still
// returns the stored error message, under the mapped status.
func (h *Handlers) writeResult(w http.ResponseWriter, msg *storage.Message, err error) {
	switch {
	case err == nil:
		shared.WriteJSON(w, sendResponse(msg, nil), http.StatusOK)
	case errors.Is(err, types.ErrEmptyConversation), errors.Is(err, types.ErrNotUserTurn):
		shared.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case msg != nil:
		status := http.StatusBadGateway
		if ge, ok := types.AsGatewayError(err); ok {
			status, _ = types.FromGatewayError(ge)
		}
		shared.WriteJSON(w, sendResponse(msg, err), status)
	default:
		shared.WriteError(w, err, "conversation")
	}
}

func sendResponse(msg *storage.Message, err error) SendResponse {
	resp := SendResponse{Message: msg}
	if err == nil {
		return resp
	}
	ge, ok := types.AsGatewayError(err)
	if !ok {
		resp.Error = &types.ErrorDetail{Message: err.Error(), Type: types.ErrorTypeServer}
		return resp
	}
	_, body := types.FromGatewayError(ge)
	resp.Error = &body.Error
	return resp
}
