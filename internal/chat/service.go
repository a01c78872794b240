// Package chat binds stored conversations to the gateway: it appends turns,
// trims history, streams the assistant reply and records the outcome.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/goatchat/internal/gateway"
	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
	"github.com/mandalnilabja/goatchat/internal/tokenizer"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// ErrorPrefix marks the content of a failed assistant message.
const ErrorPrefix = "**Error**: "

// Sender dispatches a conversation to a provider. *gateway.Gateway
// satisfies it.
type Sender interface {
	Send(ctx context.Context, messages []types.ChatMessage, opts types.SendOptions, onDelta func(string)) (string, error)
}

// Resolver picks a provider and model. *provider.Router satisfies it.
type Resolver interface {
	Resolve(providerID, model string) (provider.Route, error)
}

// Store is the persistence the service needs.
type Store interface {
	storage.ConversationStore
	LogRequest(log *models.RequestLog) error
}

// SendParams are the per-call generation options.
type SendParams struct {
	Credential  string
	Stream      bool
	Temperature *float64
	MaxTokens   int
}

// Service runs chat turns against stored conversations. It is safe for
// concurrent use across conversations; concurrent sends to one
// conversation interleave their turns.
type Service struct {
	store    Store
	sender   Sender
	resolver Resolver
	counter  tokenizer.MessageCounter
	budget   int
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithHistoryBudget trims history to budget tokens counted by counter.
func WithHistoryBudget(counter tokenizer.MessageCounter, budget int) Option {
	return func(s *Service) {
		s.counter = counter
		s.budget = budget
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service.
func NewService(store Store, sender Sender, resolver Resolver, opts ...Option) *Service {
	s := &Service{
		store:    store,
		sender:   sender,
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewConversation creates a conversation bound to the resolved provider and
// model; empty values fall back to the configured defaults.
func (s *Service) NewConversation(title, providerID, model string) (*models.Conversation, error) {
	route, err := s.resolver.Resolve(providerID, model)
	if err != nil {
		return nil, err
	}

	conv := &models.Conversation{Title: title, Provider: route.ProviderID, Model: route.Model}
	if err := s.store.CreateConversation(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// SetModel rebinds a conversation, resolving aliases the same way as
// NewConversation.
func (s *Service) SetModel(conversationID, providerID, model string) (provider.Route, error) {
	route, err := s.resolver.Resolve(providerID, model)
	if err != nil {
		return provider.Route{}, err
	}
	return route, s.store.SetConversationModel(conversationID, route.ProviderID, route.Model)
}

// Send appends userText (when non-blank) to the conversation and asks the
// conversation's provider for a reply. Deltas are passed to onDelta as they
// arrive when params.Stream is set.
//
// The returned assistant message is stored with status sent, or status
// error and a remediation text when the call fails; in that case the
// gateway error is returned too. A conversation that does not end with a
// user turn is rejected before any assistant message is created.
func (s *Service) Send(ctx context.Context, conversationID, userText string, params SendParams, onDelta func(string)) (*models.Message, error) {
	conv, err := s.store.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}

	if text := strings.TrimSpace(userText); text != "" {
		if err := s.appendUserMessage(conv, userText); err != nil {
			return nil, err
		}
	}

	history := History(conv.Messages)
	if err := types.ValidateConversation(history); err != nil {
		return nil, err
	}

	if s.counter != nil && s.budget > 0 {
		trimmed, err := tokenizer.TrimHistory(s.counter, history, conv.Model, s.budget)
		if err != nil {
			s.logger.Warn("history trimming failed, sending full history", "conversation_id", conv.ID, "error", err)
		} else {
			if dropped := len(history) - len(trimmed); dropped > 0 {
				s.logger.Debug("trimmed history", "conversation_id", conv.ID, "dropped", dropped)
			}
			history = trimmed
		}
	}

	assistant := &models.Message{
		ConversationID: conv.ID,
		Role:           types.RoleAssistant,
		Status:         models.StatusStreaming,
	}
	if err := s.store.AddMessage(assistant); err != nil {
		return nil, err
	}

	requestID, ok := gateway.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = gateway.ContextWithRequestID(ctx, requestID)
	}

	start := time.Now()
	text, sendErr := s.sender.Send(ctx, history, types.SendOptions{
		ProviderID:  conv.Provider,
		Credential:  params.Credential,
		Model:       conv.Model,
		Stream:      params.Stream,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}, onDelta)
	s.logRequest(requestID, conv, params.Stream, time.Since(start), sendErr)

	if sendErr != nil {
		assistant.Content = ErrorPrefix + Remediation(sendErr)
		assistant.Status = models.StatusError
	} else {
		assistant.Content = text
		assistant.Status = models.StatusSent
	}

	if err := s.store.UpdateMessage(assistant.ID, assistant.Content, assistant.Status); err != nil {
		return assistant, errors.Join(sendErr, err)
	}
	return assistant, sendErr
}

func (s *Service) appendUserMessage(conv *models.Conversation, text string) error {
	msg := &models.Message{ConversationID: conv.ID, Role: types.RoleUser, Content: text}
	if err := s.store.AddMessage(msg); err != nil {
		return err
	}

	if len(conv.Messages) == 0 && conv.Title == storage.DefaultTitle {
		title := AutoTitle(text)
		if err := s.store.RenameConversation(conv.ID, title); err != nil {
			s.logger.Warn("auto title failed", "conversation_id", conv.ID, "error", err)
		} else {
			conv.Title = title
		}
	}

	conv.Messages = append(conv.Messages, msg)
	return nil
}

func (s *Service) logRequest(requestID string, conv *models.Conversation, stream bool, elapsed time.Duration, err error) {
	entry := &models.RequestLog{
		RequestID:      requestID,
		ConversationID: conv.ID,
		Provider:       conv.Provider,
		Model:          conv.Model,
		IsStreaming:    stream,
		DurationMs:     elapsed.Milliseconds(),
	}

	ge, isGateway := types.AsGatewayError(err)
	switch {
	case err == nil:
		entry.StatusCode = http.StatusOK
	case isGateway:
		entry.StatusCode = ge.StatusCode
		entry.ErrorKind = string(ge.Kind)
		entry.ErrorMessage = err.Error()
	default:
		entry.ErrorMessage = err.Error()
	}

	if logErr := s.store.LogRequest(entry); logErr != nil {
		s.logger.Warn("failed to record request", "request_id", requestID, "error", logErr)
	}
}

// History converts stored messages into the gateway's message form.
// Failed and unfinished assistant replies are left out.
func History(messages []*models.Message) []types.ChatMessage {
	out := make([]types.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Status == models.StatusError || m.Status == models.StatusStreaming {
			continue
		}
		out = append(out, types.NewTextMessage(m.Role, m.Content))
	}
	return out
}
