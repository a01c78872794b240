package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/provider/anthropic"
	"github.com/mandalnilabja/goatchat/internal/provider/gemini"
	"github.com/mandalnilabja/goatchat/internal/provider/openaicompat"
	"github.com/mandalnilabja/goatchat/internal/provider/pollinations"
	"github.com/mandalnilabja/goatchat/internal/types"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func openRouterAt(url string) *types.Descriptor {
	return openaicompat.New(openaicompat.Options{
		ID:           openaicompat.OpenRouterID,
		Endpoint:     url + "/api/v1/chat/completions",
		ExtraHeaders: map[string]string{"X-Title": "Goatchat"},
	})
}

func newTestGateway(descs ...*types.Descriptor) *Gateway {
	return New(provider.NewRegistryWith(descs...))
}

func hello() []types.ChatMessage {
	return []types.ChatMessage{types.NewTextMessage(types.RoleUser, "Hello")}
}

func TestSendNonStreaming(t *testing.T) {
	var captured map[string]any
	var auth, title string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		title = r.Header.Get("X-Title")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Hi there"}}]}`))
	}))
	defer srv.Close()

	g := newTestGateway(openRouterAt(srv.URL))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Credential: "sk-or-test",
		Model:      "deepseek/deepseek-chat-v3.1:free",
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "Hi there", text)
	require.Equal(t, "Bearer sk-or-test", auth)
	require.Equal(t, "Goatchat", title)
	require.Equal(t, "deepseek/deepseek-chat-v3.1:free", captured["model"])
	require.Equal(t, false, captured["stream"])
	require.InDelta(t, 0.7, captured["temperature"], 1e-9)
	require.InDelta(t, 4000, captured["max_tokens"], 1e-9)
}

func TestSendStreaming(t *testing.T) {
	var streamFlag any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		streamFlag = body["stream"]

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`data: {"choices":[{"delta":{"content":"He"}}]}` + "\n",
			`data: {"choices":[{"delta":{"content":"llo"}}]}` + "\n",
			"data: [DONE]\n",
		} {
			w.Write([]byte(line))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	var deltas []string
	g := newTestGateway(openRouterAt(srv.URL))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Model:      "deepseek/deepseek-chat-v3.1:free",
		Stream:     true,
	}, func(d string) { deltas = append(deltas, d) })

	require.NoError(t, err)
	require.Equal(t, "Hello", text)
	require.Equal(t, []string{"He", "llo"}, deltas)
	require.Equal(t, true, streamFlag)
}

func TestSendStreamWithoutCallbackFallsBackToWholeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, false, body["stream"])
		w.Write([]byte(`{"choices":[{"message":{"content":"whole"}}]}`))
	}))
	defer srv.Close()

	g := newTestGateway(openRouterAt(srv.URL))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Stream:     true,
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "whole", text)
}

func TestSendStreamSkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(": keep-alive\n" +
			`data: {"choices":[{"delta":{"content":"A"}}]}` + "\n" +
			"data: {not json}\n" +
			`data: {"choices":[{"delta":{"content":"B"}}]}` + "\n" +
			"data: [DONE]\n"))
	}))
	defer srv.Close()

	var deltas []string
	g := newTestGateway(openRouterAt(srv.URL))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Stream:     true,
	}, func(d string) { deltas = append(deltas, d) })

	require.NoError(t, err)
	require.Equal(t, "AB", text)
	require.Equal(t, []string{"A", "B"}, deltas)
}

func TestSendUsesDefaultProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"default"}}]}`))
	}))
	defer srv.Close()

	g := New(provider.NewRegistryWith(openRouterAt(srv.URL)))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{}, nil)

	require.NoError(t, err)
	require.Equal(t, "default", text)
}

func TestSendUnknownProvider(t *testing.T) {
	called := false
	g := New(provider.NewRegistryWith(), WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unexpected")
	})))

	_, err := g.Send(context.Background(), hello(), types.SendOptions{ProviderID: "nope"}, nil)

	require.Error(t, err)
	require.True(t, types.IsKind(err, types.KindConfig), "got %v", err)
	require.ErrorIs(t, err, provider.ErrUnknownProvider)
	require.False(t, called)
}

func TestSendHTTPStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"bad key"}`},
		{"not found", http.StatusNotFound, `{"error":"no such model"}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`},
		{"server error", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			deltaCalled := false
			g := newTestGateway(openRouterAt(srv.URL))
			_, err := g.Send(context.Background(), hello(), types.SendOptions{
				ProviderID: "openrouter",
				Stream:     true,
			}, func(string) { deltaCalled = true })

			ge, ok := types.AsGatewayError(err)
			require.True(t, ok, "got %v", err)
			require.Equal(t, types.KindHTTPStatus, ge.Kind)
			require.Equal(t, tt.status, ge.StatusCode)
			require.Equal(t, tt.body, ge.Body)
			require.Equal(t, "openrouter", ge.Provider)
			require.False(t, deltaCalled)
		})
	}
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := newTestGateway(openRouterAt(url))
	_, err := g.Send(context.Background(), hello(), types.SendOptions{ProviderID: "openrouter"}, nil)

	require.True(t, types.IsKind(err, types.KindNetwork), "got %v", err)
}

func TestSendContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(provider.NewRegistryWith(openRouterAt("http://example.invalid")), WithTransport(doerFunc(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})))
	_, err := g.Send(ctx, hello(), types.SendOptions{ProviderID: "openrouter"}, nil)

	require.True(t, types.IsKind(err, types.KindNetwork), "got %v", err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSendStreamUnavailable(t *testing.T) {
	g := New(provider.NewRegistryWith(openRouterAt("http://example.invalid")), WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})))

	_, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Stream:     true,
	}, func(string) {})

	require.True(t, types.IsKind(err, types.KindStreamUnavailable), "got %v", err)
}

func TestSendMidStreamFailureDiscardsPartialText(t *testing.T) {
	body := io.MultiReader(
		strings.NewReader(`data: {"choices":[{"delta":{"content":"He"}}]}`+"\n"),
		failingReader{err: errors.New("connection reset by peer")},
	)
	g := New(provider.NewRegistryWith(openRouterAt("http://example.invalid")), WithTransport(doerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(body)}, nil
	})))

	var deltas []string
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: "openrouter",
		Stream:     true,
	}, func(d string) { deltas = append(deltas, d) })

	require.True(t, types.IsKind(err, types.KindNetwork), "got %v", err)
	require.Empty(t, text)
	require.Equal(t, []string{"He"}, deltas)
}

func TestSendDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"no choices", `{"id":"x"}`},
		{"empty choices", `{"choices":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := newTestGateway(openRouterAt(srv.URL))
			_, err := g.Send(context.Background(), hello(), types.SendOptions{ProviderID: "openrouter"}, nil)

			require.True(t, types.IsKind(err, types.KindDecode), "got %v", err)
		})
	}
}

func TestSendNullContentIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":null}}]}`))
	}))
	defer srv.Close()

	g := newTestGateway(openRouterAt(srv.URL))
	text, err := g.Send(context.Background(), hello(), types.SendOptions{ProviderID: "openrouter"}, nil)

	require.NoError(t, err)
	require.Empty(t, text)
}

func TestSendGemini(t *testing.T) {
	var path, key string
	var captured gemini.GenerateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("X-Goog-Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Bonjour"}],"role":"model"}}]}`))
	}))
	defer srv.Close()

	desc := gemini.New()
	desc.EndpointTemplate = srv.URL + "/v1beta/models/" + types.PlaceholderModel + ":generateContent"

	messages := []types.ChatMessage{
		types.NewTextMessage(types.RoleUser, "Hi"),
		types.NewTextMessage(types.RoleAssistant, "Hello!"),
		types.NewTextMessage(types.RoleUser, "Say it in French"),
	}

	var deltas []string
	g := newTestGateway(desc)
	text, err := g.Send(context.Background(), messages, types.SendOptions{
		ProviderID: gemini.ID,
		Credential: "g-key",
		Model:      "gemini-2.0-flash",
		Stream:     true,
	}, func(d string) { deltas = append(deltas, d) })

	require.NoError(t, err)
	require.Equal(t, "Bonjour", text)
	require.Empty(t, deltas, "gemini is called synchronously")
	require.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", path)
	require.Equal(t, "g-key", key)
	require.Len(t, captured.Contents, 3)
	require.Equal(t, "model", captured.Contents[1].Role)
	require.Equal(t, 8192, captured.GenerationConfig.MaxOutputTokens)
}

func TestSendAnthropic(t *testing.T) {
	var key, version string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		w.Write([]byte(`{"content":[{"type":"text","text":"Claude here"}]}`))
	}))
	defer srv.Close()

	desc := anthropic.New()
	desc.EndpointTemplate = srv.URL + "/v1/messages"

	g := newTestGateway(desc)
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: anthropic.ID,
		Credential: "sk-ant",
		Model:      "claude-3-haiku",
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "Claude here", text)
	require.Equal(t, "sk-ant", key)
	require.Equal(t, "2023-06-01", version)
}

func TestSendPollinationsText(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("plain answer"))
	}))
	defer srv.Close()

	desc := pollinations.New()
	desc.EndpointTemplate = srv.URL + "/"

	g := newTestGateway(desc)
	text, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID: pollinations.ID,
		Model:      pollinations.TextModel,
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "plain answer", text)
	require.Empty(t, auth)
}

func TestSendPollinationsImage(t *testing.T) {
	var method, prompt, model string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		prompt = strings.TrimPrefix(r.URL.Path, "/prompt/")
		model = r.URL.Query().Get("model")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer srv.Close()

	desc := pollinations.New()
	desc.Image.EndpointTemplate = srv.URL + "/prompt/" + types.PlaceholderPrompt + "?model=" + types.PlaceholderModel

	messages := []types.ChatMessage{
		types.NewTextMessage(types.RoleUser, "first idea"),
		types.NewTextMessage(types.RoleAssistant, "ok"),
		types.NewTextMessage(types.RoleUser, "a goat on a hill"),
	}

	g := newTestGateway(desc)
	text, err := g.Send(context.Background(), messages, types.SendOptions{
		ProviderID: pollinations.ID,
		Model:      "flux",
		Stream:     true,
	}, func(string) {})

	require.NoError(t, err)
	require.Equal(t, "![Generated Image]("+srv.URL+"/prompt/a%20goat%20on%20a%20hill?model=flux)", text)
	require.Equal(t, http.MethodGet, method)
	require.Equal(t, "a goat on a hill", prompt)
	require.Equal(t, "flux", model)
}

func TestSendCredentialPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		source   CredentialSource
		want     string
	}{
		{"explicit wins", "explicit", CredentialFunc(func(context.Context, string) string { return "default" }), "Bearer explicit"},
		{"default used", "", CredentialFunc(func(context.Context, string) string { return "default" }), "Bearer default"},
		{"chain falls through", "", CredentialChain{
			nil,
			CredentialFunc(func(context.Context, string) string { return "" }),
			CredentialFunc(func(_ context.Context, id string) string { return "from-" + id }),
		}, "Bearer from-openrouter"},
		{"none configured", "", nil, "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var auth string
			g := New(provider.NewRegistryWith(openRouterAt("http://example.invalid")),
				WithCredentials(tt.source),
				WithTransport(doerFunc(func(req *http.Request) (*http.Response, error) {
					auth = req.Header.Get("Authorization")
					return &http.Response{
						StatusCode: http.StatusOK,
						Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"content":"ok"}}]}`)),
					}, nil
				})),
			)

			_, err := g.Send(context.Background(), hello(), types.SendOptions{
				ProviderID: "openrouter",
				Credential: tt.explicit,
			}, nil)

			require.NoError(t, err)
			require.Equal(t, tt.want, auth)
		})
	}
}

func TestSendExplicitGenerationOptions(t *testing.T) {
	var captured map[string]any
	g := New(provider.NewRegistryWith(openRouterAt("http://example.invalid")), WithTransport(doerFunc(func(req *http.Request) (*http.Response, error) {
		require.NoError(t, json.NewDecoder(req.Body).Decode(&captured))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"content":"ok"}}]}`)),
		}, nil
	})))

	_, err := g.Send(context.Background(), hello(), types.SendOptions{
		ProviderID:  "openrouter",
		Model:       "not-in-the-list",
		Temperature: types.Float64(0),
		MaxTokens:   128,
	}, nil)

	require.NoError(t, err)
	require.Equal(t, "not-in-the-list", captured["model"])
	require.InDelta(t, 0, captured["temperature"], 1e-9)
	require.InDelta(t, 128, captured["max_tokens"], 1e-9)
}
