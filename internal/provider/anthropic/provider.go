// Package anthropic implements the Anthropic Messages API descriptor.
package anthropic

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// ID is the provider identifier.
const ID = "anthropic"

const (
	endpoint         = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 1000
)

// ErrNoContent is returned when a response has no content blocks.
var ErrNoContent = errors.New("response has no content blocks")

// MessagesRequest is the Messages API request body.
type MessagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
	System      string    `json:"system,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Message is one Messages API turn; role is user or assistant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesResponse is the Messages API response body.
type MessagesResponse struct {
	ID      string         `json:"id,omitempty"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one block of assistant output.
type ContentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text"`
}

// StreamEvent is the data payload of one Messages API SSE event.
type StreamEvent struct {
	Type  string `json:"type"`
	Delta *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta,omitempty"`
}

// New returns the Anthropic descriptor.
func New() *types.Descriptor {
	return &types.Descriptor{
		ID:               ID,
		EndpointTemplate: endpoint,
		Models:           []string{"claude-3-opus", "claude-3-sonnet", "claude-3-haiku"},
		Headers: func(credential string) map[string]string {
			return map[string]string{
				"x-api-key":         credential,
				"anthropic-version": apiVersion,
			}
		},
		BuildRequest:     BuildRequest,
		ExtractResponse:  ParseResponse,
		ExtractChunk:     ParseChunk,
		SupportsStream:   true,
		DefaultMaxTokens: defaultMaxTokens,
	}
}

// BuildRequest produces a Messages API body. System turns are lifted into
// the top-level system prompt; every other non-assistant role becomes user.
func BuildRequest(messages []types.ChatMessage, model string, opts types.RequestOptions) (any, error) {
	req := &MessagesRequest{
		Model:       model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Stream:      opts.Stream,
		Messages:    make([]Message, 0, len(messages)),
	}

	var system []string
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			system = append(system, msg.Content)
		case types.RoleAssistant:
			req.Messages = append(req.Messages, Message{Role: types.RoleAssistant, Content: msg.Content})
		default:
			req.Messages = append(req.Messages, Message{Role: types.RoleUser, Content: msg.Content})
		}
	}
	req.System = strings.Join(system, "\n\n")

	return req, nil
}

// ParseResponse extracts content[0].text.
func ParseResponse(body []byte) (string, error) {
	var resp MessagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Content) == 0 {
		return "", ErrNoContent
	}
	if resp.Content[0].Text == nil {
		return "", nil
	}
	return *resp.Content[0].Text, nil
}

// ParseChunk extracts text from content_block_delta events. Event name
// lines, pings and stop events yield nothing.
func ParseChunk(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "data:") {
		return "", false
	}

	var event StreamEvent
	if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(trimmed, "data:"))), &event); err != nil {
		return "", false
	}
	if event.Type != "content_block_delta" || event.Delta == nil {
		return "", false
	}
	return event.Delta.Text, event.Delta.Text != ""
}
