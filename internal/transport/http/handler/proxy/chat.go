package proxy

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/goatchat/internal/gateway"
	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Provider    string              `json:"provider,omitempty"`
	Model       string              `json:"model,omitempty"`
	Messages    []types.ChatMessage `json:"messages"`
	Stream      *bool               `json:"stream,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

// ChatResponse is the non-streaming answer of POST /v1/chat.
type ChatResponse struct {
	RequestID string `json:"request_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Content   string `json:"content"`
}

// Delta is one streamed event.
type Delta struct {
	Delta string `json:"delta"`
}

// StreamError is sent in place of [DONE] when a stream fails after the
// first event.
type StreamError struct {
	Error *types.ErrorDetail `json:"error"`
}

// Chat handles POST /v1/chat. Streaming answers are server-sent events
// carrying {"delta": ...} and ending with [DONE].
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest(err.Error()))
		return
	}
	if err := types.ValidateConversation(req.Messages); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest(err.Error()))
		return
	}

	route, err := h.Router.Resolve(req.Provider, req.Model)
	if err != nil {
		shared.WriteError(w, err, "provider")
		return
	}

	stream := h.Stream
	if req.Stream != nil {
		stream = *req.Stream
	}

	requestID, _ := gateway.RequestIDFromContext(r.Context())
	opts := types.SendOptions{
		ProviderID:  route.ProviderID,
		Credential:  bearerCredential(r),
		Model:       route.Model,
		Stream:      stream,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()
	if !stream {
		text, err := h.Gateway.Send(r.Context(), req.Messages, opts, nil)
		h.logRequest(requestID, route, false, time.Since(start), err)
		if err != nil {
			shared.WriteError(w, err, "provider")
			return
		}
		shared.WriteJSON(w, ChatResponse{
			RequestID: requestID,
			Provider:  route.ProviderID,
			Model:     route.Model,
			Content:   text,
		}, http.StatusOK)
		return
	}

	sse := shared.NewSSE(w)
	var writeErr error
	text, err := h.Gateway.Send(r.Context(), req.Messages, opts, func(delta string) {
		if writeErr == nil {
			writeErr = sse.Event(Delta{Delta: delta})
		}
	})
	h.logRequest(requestID, route, true, time.Since(start), err)

	h.finishStream(sse, text, err, writeErr)
}

// finishStream closes an event stream. Failures before the first event
// become ordinary JSON errors; a provider that answered without deltas
// is sent as a single event.
func (h *Handlers) finishStream(sse *shared.SSE, text string, err, writeErr error) {
	if writeErr != nil {
		h.Logger.Debug("client stream closed", "error", writeErr)
		return
	}

	if err != nil {
		ge, ok := types.AsGatewayError(err)
		if !ok {
			ge = types.NewNetworkError("", err)
		}
		if !sse.Started() {
			shared.WriteGatewayError(sse.Writer(), ge)
			return
		}
		_, body := types.FromGatewayError(ge)
		_ = sse.Event(StreamError{Error: &body.Error})
		return
	}

	if !sse.Started() && text != "" {
		if err := sse.Event(Delta{Delta: text}); err != nil {
			return
		}
	}
	_ = sse.Done()
}
