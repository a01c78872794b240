// Package openaicompat implements descriptors for vendors that speak the
// OpenAI chat-completions dialect (OpenAI, OpenRouter, CloseRouter).
package openaicompat

import (
	"github.com/mandalnilabja/goatchat/internal/types"
)

// Provider identifiers served by this package.
const (
	OpenAIID      = "openai"
	OpenRouterID  = "openrouter"
	CloseRouterID = "closerouter"
)

// Options configures one chat-completions vendor.
type Options struct {
	ID       string
	Endpoint string
	Models   []string

	// ExtraHeaders are sent on every request besides Authorization.
	ExtraHeaders map[string]string
}

// New creates a chat-completions descriptor with bearer auth and SSE streaming.
func New(opts Options) *types.Descriptor {
	extra := make(map[string]string, len(opts.ExtraHeaders))
	for k, v := range opts.ExtraHeaders {
		extra[k] = v
	}

	return &types.Descriptor{
		ID:               opts.ID,
		EndpointTemplate: opts.Endpoint,
		Models:           opts.Models,
		Headers: func(credential string) map[string]string {
			headers := map[string]string{
				"Authorization": "Bearer " + credential,
			}
			for k, v := range extra {
				headers[k] = v
			}
			return headers
		},
		BuildRequest:    BuildRequest,
		ExtractResponse: ParseResponse,
		ExtractChunk:    ParseChunk,
		SupportsStream:  true,
	}
}

// OpenAI returns the descriptor for api.openai.com.
func OpenAI() *types.Descriptor {
	return New(Options{
		ID:       OpenAIID,
		Endpoint: "https://api.openai.com/v1/chat/completions",
		Models:   []string{"gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"},
	})
}

// OpenRouter returns the descriptor for openrouter.ai.
func OpenRouter() *types.Descriptor {
	return New(Options{
		ID:       OpenRouterID,
		Endpoint: "https://openrouter.ai/api/v1/chat/completions",
		Models: []string{
			"openai/gpt-oss-20b:free",
			"meta-llama/llama-3.3-70b-instruct:free",
			"deepseek/deepseek-chat-v3.1:free",
			"x-ai/grok-4-fast:free",
			"qwen/qwen3-coder:free",
			"google/gemini-2.0-flash-exp:free",
		},
		ExtraHeaders: map[string]string{
			"HTTP-Referer": "https://github.com/mandalnilabja/goatchat",
			"X-Title":      "Goatchat",
		},
	})
}

// CloseRouter returns the descriptor for api.closerouter.com.
func CloseRouter() *types.Descriptor {
	return New(Options{
		ID:       CloseRouterID,
		Endpoint: "https://api.closerouter.com/v1/chat/completions",
		Models:   []string{"gpt-4o", "gpt-4", "claude-3-sonnet", "gemini-pro"},
	})
}

// BuildRequest produces a chat-completions body. Messages are passed through.
func BuildRequest(messages []types.ChatMessage, model string, opts types.RequestOptions) (any, error) {
	return &ChatCompletionRequest{
		Messages:    messages,
		Model:       model,
		Stream:      opts.Stream,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}, nil
}
