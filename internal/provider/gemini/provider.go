// Package gemini implements the Google Gemini generateContent descriptor.
package gemini

import (
	"encoding/json"
	"errors"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// ID is the provider identifier.
const ID = "gemini"

// roleModel is Gemini's name for the assistant role.
const roleModel = "model"

const (
	endpointTemplate = "https://generativelanguage.googleapis.com/v1beta/models/" + types.PlaceholderModel + ":generateContent"
	defaultMaxTokens = 8192
	defaultTopP      = 0.95
	defaultTopK      = 64
)

// ErrNoCandidates is returned when a response has no candidates.
var ErrNoCandidates = errors.New("response has no candidates")

// GenerateContentRequest is the generateContent request body.
type GenerateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content is one conversation turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a turn.
type Part struct {
	Text *string `json:"text,omitempty"`
}

// GenerationConfig holds sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GenerateContentResponse is the generateContent response body.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// New returns the Gemini descriptor. Gemini is called synchronously only.
func New() *types.Descriptor {
	return &types.Descriptor{
		ID:               ID,
		EndpointTemplate: endpointTemplate,
		Models:           []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"},
		Headers: func(credential string) map[string]string {
			return map[string]string{"X-goog-api-key": credential}
		},
		BuildRequest:     BuildRequest,
		ExtractResponse:  ParseResponse,
		DefaultMaxTokens: defaultMaxTokens,
	}
}

// BuildRequest produces a generateContent body, renaming assistant to model.
func BuildRequest(messages []types.ChatMessage, _ string, opts types.RequestOptions) (any, error) {
	contents := make([]Content, 0, len(messages))
	for _, msg := range messages {
		role := types.RoleUser
		if msg.Role == types.RoleAssistant {
			role = roleModel
		}
		text := msg.Content
		contents = append(contents, Content{Role: role, Parts: []Part{{Text: &text}}})
	}

	return &GenerateContentRequest{
		Contents: contents,
		GenerationConfig: GenerationConfig{
			Temperature:     opts.Temperature,
			TopP:            defaultTopP,
			TopK:            defaultTopK,
			MaxOutputTokens: opts.MaxTokens,
		},
	}, nil
}

// ParseResponse extracts candidates[0].content.parts[0].text. A candidate
// without content (safety-filtered) yields "".
func ParseResponse(body []byte) (string, error) {
	var resp GenerateContentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return "", nil
	}
	return *content.Parts[0].Text, nil
}
