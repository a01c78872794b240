// Package pollinations implements the keyless Pollinations.AI descriptor:
// a plain-text chat endpoint plus a prompt-only image endpoint.
package pollinations

import (
	"github.com/mandalnilabja/goatchat/internal/types"
)

// ID is the provider identifier.
const ID = "pollinations"

// TextModel is the only model served by the chat endpoint.
const TextModel = "pollinations-text"

const (
	textEndpoint  = "https://text.pollinations.ai/"
	imageEndpoint = "https://image.pollinations.ai/prompt/" + types.PlaceholderPrompt + "?model=" + types.PlaceholderModel
)

// TextRequest is the text endpoint body.
type TextRequest struct {
	Messages []types.ChatMessage `json:"messages"`
}

// New returns the Pollinations descriptor.
func New() *types.Descriptor {
	return &types.Descriptor{
		ID:               ID,
		EndpointTemplate: textEndpoint,
		Models:           []string{TextModel, "flux", "turbo"},
		Headers: func(string) map[string]string {
			return map[string]string{}
		},
		BuildRequest: func(messages []types.ChatMessage, _ string, _ types.RequestOptions) (any, error) {
			return &TextRequest{Messages: messages}, nil
		},
		ExtractResponse: func(body []byte) (string, error) {
			return string(body), nil
		},
		PlainText: true,
		Image: &types.ImageGeneration{
			TextModels:       []string{TextModel},
			EndpointTemplate: imageEndpoint,
			FallbackPrompt:   "a beautiful image",
		},
	}
}
