package openaicompat

import (
	"encoding/json"
	"testing"

	"github.com/mandalnilabja/goatchat/internal/types"
)

func TestParseChunk(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantDelta string
		wantOK    bool
	}{
		{
			name:      "content delta",
			line:      `data: {"choices":[{"delta":{"content":"He"}}]}`,
			wantDelta: "He",
			wantOK:    true,
		},
		{
			name:      "no space after prefix",
			line:      `data:{"choices":[{"delta":{"content":"llo"}}]}`,
			wantDelta: "llo",
			wantOK:    true,
		},
		{
			name:      "carriage return is trimmed",
			line:      "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\r",
			wantDelta: "x",
			wantOK:    true,
		},
		{name: "done terminator", line: "data: [DONE]"},
		{name: "empty line", line: ""},
		{name: "comment line", line: ": OPENROUTER PROCESSING"},
		{name: "event line", line: "event: message"},
		{name: "malformed json", line: `data: {"choices":[{"delta":`},
		{name: "role only delta", line: `data: {"choices":[{"delta":{"role":"assistant"}}]}`},
		{name: "empty content", line: `data: {"choices":[{"delta":{"content":""}}]}`},
		{name: "no choices", line: `data: {"choices":[]}`},
		{name: "non-string content", line: `data: {"choices":[{"delta":{"content":42}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, ok := ParseChunk(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if delta != tt.wantDelta {
				t.Errorf("expected delta %q, got %q", tt.wantDelta, delta)
			}
		})
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "content", body: `{"choices":[{"message":{"content":"Hi there"}}]}`, want: "Hi there"},
		{name: "null content", body: `{"choices":[{"message":{"content":null}}]}`, want: ""},
		{name: "missing content", body: `{"choices":[{"message":{}}]}`, want: ""},
		{name: "no choices", body: `{"choices":[]}`, wantErr: true},
		{name: "missing choices", body: `{"id":"x"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse([]byte(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuildRequestShape(t *testing.T) {
	messages := []types.ChatMessage{
		types.NewTextMessage(types.RoleSystem, "be brief"),
		types.NewTextMessage(types.RoleUser, "Hi"),
	}
	payload, err := BuildRequest(messages, "m", types.RequestOptions{Stream: true, Temperature: 0.7, MaxTokens: 4000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"messages", "model", "stream", "temperature", "max_tokens"} {
		if _, ok := got[key]; !ok {
			t.Errorf("expected key %q in body %s", key, raw)
		}
	}
	if got["model"] != "m" || got["stream"] != true || got["max_tokens"] != float64(4000) {
		t.Errorf("unexpected body: %s", raw)
	}
	if msgs := got["messages"].([]any); len(msgs) != 2 {
		t.Errorf("expected 2 messages, got %d", len(msgs))
	}
}

func TestOpenRouterHeaders(t *testing.T) {
	headers := OpenRouter().Headers("sk-or-test")

	if headers["Authorization"] != "Bearer sk-or-test" {
		t.Errorf("unexpected Authorization: %q", headers["Authorization"])
	}
	if headers["HTTP-Referer"] == "" || headers["X-Title"] == "" {
		t.Errorf("expected OpenRouter attribution headers, got %v", headers)
	}
	if _, ok := OpenAI().Headers("k")["X-Title"]; ok {
		t.Error("OpenAI descriptor must not carry OpenRouter headers")
	}
}
