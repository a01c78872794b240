// Package gateway dispatches normalized conversations to vendor APIs and
// normalizes their answers, streaming incremental text when asked to.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// readBufferSize is the chunk size used when reading streamed bodies.
const readBufferSize = 32 * 1024

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 64 * 1024

// State is a step in the lifecycle of one Send call.
type State string

// Call states
const (
	StateIdle       State = "idle"
	StateDispatched State = "dispatched"
	StateStreaming  State = "streaming"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Doer issues HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Registry resolves provider identifiers to descriptors.
type Registry interface {
	Lookup(id string) (*types.Descriptor, error)
}

// Gateway is the top-level entry point. It holds no per-call state and is
// safe for concurrent use.
type Gateway struct {
	registry        Registry
	transport       Doer
	credentials     CredentialSource
	defaultProvider string
	logger          *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithTransport sets the HTTP transport.
func WithTransport(d Doer) Option {
	return func(g *Gateway) { g.transport = d }
}

// WithCredentials sets the default credential source.
func WithCredentials(src CredentialSource) Option {
	return func(g *Gateway) { g.credentials = src }
}

// WithDefaultProvider sets the provider used when SendOptions names none.
func WithDefaultProvider(id string) Option {
	return func(g *Gateway) { g.defaultProvider = id }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a Gateway over registry.
func New(registry Registry, opts ...Option) *Gateway {
	g := &Gateway{
		registry:        registry,
		transport:       NewHTTPClient(),
		defaultProvider: "openrouter",
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewHTTPClient returns the client used for vendor calls. It has no timeout;
// callers bound a call through its context.
func NewHTTPClient() *http.Client {
	// DisableCompression required for streaming
	return &http.Client{
		Transport: &http.Transport{
			Proxy:              http.ProxyFromEnvironment,
			DisableCompression: true,
		},
	}
}

type requestIDKey struct{}

// ContextWithRequestID tags ctx with a request id used in gateway logs.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := RequestIDFromContext(ctx); ok {
		return id
	}
	return uuid.NewString()
}

// Send dispatches messages and returns the full assistant text.
//
// When opts.Stream is set, the provider supports streaming and onDelta is
// non-nil, deltas are passed to onDelta in arrival order and the returned
// text is their concatenation. Every error is a *types.GatewayError; text
// streamed before a failure is discarded.
func (g *Gateway) Send(ctx context.Context, messages []types.ChatMessage, opts types.SendOptions, onDelta func(string)) (string, error) {
	start := time.Now()

	providerID := opts.ProviderID
	if providerID == "" {
		providerID = g.defaultProvider
	}

	logger := g.logger.With(
		"request_id", requestIDFrom(ctx),
		"provider", providerID,
		"model", opts.Model,
	)

	text, err := g.send(ctx, logger, providerID, messages, opts, onDelta)
	if err != nil {
		logger.Warn("gateway call failed",
			"state", StateFailed,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	logger.Debug("gateway call completed",
		"state", StateCompleted,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (g *Gateway) send(ctx context.Context, logger *slog.Logger, providerID string, messages []types.ChatMessage, opts types.SendOptions, onDelta func(string)) (string, error) {
	credential := g.resolveCredential(ctx, opts.Credential, providerID)

	desc, err := g.registry.Lookup(providerID)
	if err != nil {
		if _, ok := types.AsGatewayError(err); ok {
			return "", err
		}
		return "", types.NewConfigError(providerID, err)
	}

	streaming := opts.Stream && onDelta != nil && desc.CanStream(opts.Model)
	reqOpts := opts.Resolve(desc)
	reqOpts.Stream = streaming

	req, err := BuildRequest(desc, messages, opts.Model, reqOpts, credential)
	if err != nil {
		return "", types.NewConfigError(desc.ID, err)
	}
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return "", types.NewConfigError(desc.ID, err)
	}

	logger.Debug("dispatching", "state", StateDispatched, "stream", streaming, "image", req.Image, "url", req.URL)

	resp, err := g.transport.Do(httpReq)
	if err != nil {
		return "", types.NewNetworkError(desc.ID, err)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", types.NewHTTPStatusError(desc.ID, resp.StatusCode, readErrorBody(resp.Body))
	}

	if req.Image {
		return ImageReference(req.URL), nil
	}

	if streaming {
		logger.Debug("streaming", "state", StateStreaming)
		return g.stream(desc, resp.Body, onDelta, logger)
	}

	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return "", types.NewNetworkError(desc.ID, err)
		}
	}
	return ExtractResponse(desc, body)
}

// stream feeds body through a fresh accumulator until end-of-data.
func (g *Gateway) stream(desc *types.Descriptor, body io.Reader, onDelta func(string), logger *slog.Logger) (string, error) {
	if body == nil || body == http.NoBody {
		return "", types.NewStreamUnavailableError(desc.ID)
	}

	acc := NewAccumulator()
	buf := make([]byte, readBufferSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			acc.Feed(buf[:n], desc.ExtractChunk, onDelta)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", types.NewNetworkError(desc.ID, err)
		}
	}

	if pending := acc.Pending(); pending > 0 {
		logger.Debug("dropping unterminated final line", "bytes", pending)
	}
	return acc.Text(), nil
}

// readErrorBody reads a failed response body best-effort; read failures
// yield whatever was read.
func readErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return string(data)
}
