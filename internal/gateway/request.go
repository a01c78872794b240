package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// Request is a fully formatted vendor request.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// Image marks prompt-only image generation; the answer is a reference
	// to URL rather than the response body.
	Image bool
}

// BuildRequest formats messages for a vendor. Image models take only the
// most recent user message as prompt; every other model gets the
// descriptor's chat body.
func BuildRequest(desc *types.Descriptor, messages []types.ChatMessage, model string, opts types.RequestOptions, credential string) (*Request, error) {
	header := make(http.Header)
	if desc.Headers != nil {
		for k, v := range desc.Headers(credential) {
			header.Set(k, v)
		}
	}

	if desc.IsImageModel(model) {
		prompt := desc.Image.FallbackPrompt
		if last, ok := types.LastUserMessage(messages); ok && last.Content != "" {
			prompt = last.Content
		}
		return &Request{
			Method: http.MethodGet,
			URL:    expandImageEndpoint(desc.Image.EndpointTemplate, prompt, model),
			Header: header,
			Image:  true,
		}, nil
	}

	if desc.BuildRequest == nil {
		return nil, fmt.Errorf("provider %s has no request builder", desc.ID)
	}
	payload, err := desc.BuildRequest(messages, model, opts)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	header.Set("Content-Type", "application/json")

	return &Request{
		Method: http.MethodPost,
		URL:    ExpandEndpoint(desc.EndpointTemplate, model),
		Header: header,
		Body:   body,
	}, nil
}

// ExpandEndpoint substitutes the model into an endpoint template.
func ExpandEndpoint(template, model string) string {
	return strings.ReplaceAll(template, types.PlaceholderModel, url.PathEscape(model))
}

func expandImageEndpoint(template, prompt, model string) string {
	return strings.NewReplacer(
		types.PlaceholderPrompt, url.PathEscape(prompt),
		types.PlaceholderModel, url.QueryEscape(model),
	).Replace(template)
}

// HTTPRequest converts r into an *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	return req, nil
}
