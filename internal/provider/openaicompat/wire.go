package openaicompat

import "github.com/mandalnilabja/goatchat/internal/types"

// SSE framing used by chat-completions streams.
const (
	SSEDataPrefix = "data:"
	SSEDone       = "[DONE]"
)

// ChatCompletionRequest is the chat-completions request body.
type ChatCompletionRequest struct {
	Messages    []types.ChatMessage `json:"messages"`
	Model       string              `json:"model"`
	Stream      bool                `json:"stream"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

// ChatCompletionResponse represents a non-streaming chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ResponseMessage is the assistant message of a choice. Content is nil
// when the vendor filtered or refused the completion.
type ResponseMessage struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content"`
}

// ChatCompletionChunk represents a streaming chunk.
type ChatCompletionChunk struct {
	ID      string        `json:"id,omitempty"`
	Model   string        `json:"model,omitempty"`
	Choices []ChunkChoice `json:"choices"`
}

// ChunkChoice represents a choice in a streaming chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"` // Pointer to distinguish null from ""
}

// Delta represents the incremental content in a streaming chunk.
type Delta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content"`
}
