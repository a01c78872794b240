package gemini

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mandalnilabja/goatchat/internal/types"
)

func TestBuildRequestRenamesAssistant(t *testing.T) {
	messages := []types.ChatMessage{
		types.NewTextMessage(types.RoleUser, "Hi"),
		types.NewTextMessage(types.RoleAssistant, "Hello"),
		types.NewTextMessage(types.RoleSystem, "rules"),
		types.NewTextMessage(types.RoleUser, "Again"),
	}

	payload, err := BuildRequest(messages, "gemini-2.0-flash", types.RequestOptions{Temperature: 0.7, MaxTokens: 8192})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := json.Marshal(payload)
	body := string(raw)

	wantFragments := []string{
		`{"role":"user","parts":[{"text":"Hi"}]}`,
		`{"role":"model","parts":[{"text":"Hello"}]}`,
		`{"role":"user","parts":[{"text":"rules"}]}`,
		`"generationConfig":{"temperature":0.7,"topP":0.95,"topK":64,"maxOutputTokens":8192}`,
	}
	for _, frag := range wantFragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %s\nbody: %s", frag, body)
		}
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{
			name: "text",
			body: `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi there"}]}}]}`,
			want: "Hi there",
		},
		{
			name: "filtered candidate",
			body: `{"candidates":[{"finishReason":"SAFETY"}]}`,
			want: "",
		},
		{name: "no candidates", body: `{"promptFeedback":{}}`, wantErr: true},
		{name: "not json", body: `oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDescriptorIsSynchronous(t *testing.T) {
	desc := New()
	if desc.SupportsStream || desc.CanStream("gemini-2.0-flash") {
		t.Error("gemini descriptor must not stream")
	}
	if !strings.Contains(desc.EndpointTemplate, types.PlaceholderModel) {
		t.Errorf("expected model placeholder in %q", desc.EndpointTemplate)
	}
	if desc.Headers("g-key")["X-goog-api-key"] != "g-key" {
		t.Error("expected X-goog-api-key header")
	}
}
