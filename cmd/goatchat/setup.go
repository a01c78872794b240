package main

import (
	"fmt"
	"log/slog"

	"github.com/mandalnilabja/goatchat/internal/chat"
	"github.com/mandalnilabja/goatchat/internal/config"
	"github.com/mandalnilabja/goatchat/internal/credstore"
	"github.com/mandalnilabja/goatchat/internal/gateway"
	"github.com/mandalnilabja/goatchat/internal/provider"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/tokenizer"
)

// services is the runtime object graph shared by every command.
type services struct {
	store    storage.Storage
	creds    *credstore.Resolver
	registry *provider.Registry
	router   *provider.Router
	gateway  *gateway.Gateway
	chat     *chat.Service
}

func newServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	if err := config.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	creds, err := credstore.NewResolver(store, credstore.DefaultTTL, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create credential cache: %w", err)
	}

	registry := provider.NewRegistry()
	router := provider.NewRouter(registry, cfg)

	// Explicit > env/config file > stored default
	gw := gateway.New(registry,
		gateway.WithCredentials(gateway.CredentialChain{config.NewEnvCredentials(cfg), creds}),
		gateway.WithDefaultProvider(cfg.DefaultProvider),
		gateway.WithLogger(logger),
	)

	opts := []chat.Option{chat.WithLogger(logger)}
	if cfg.HistoryTokenBudget > 0 {
		opts = append(opts, chat.WithHistoryBudget(tokenizer.New(), cfg.HistoryTokenBudget))
	}

	return &services{
		store:    store,
		creds:    creds,
		registry: registry,
		router:   router,
		gateway:  gw,
		chat:     chat.NewService(store, gw, router, opts...),
	}, nil
}

// Close releases the credential cache and the database.
func (s *services) Close() error {
	s.creds.Close()
	return s.store.Close()
}

// sendParams builds generation options from config and per-command flags.
func sendParams(cfg *config.Config, f *genFlags) chat.SendParams {
	params := chat.SendParams{
		Credential:  f.apiKey,
		Stream:      cfg.Stream && !f.noStream,
		Temperature: &cfg.Temperature,
		MaxTokens:   f.maxTokens,
	}
	if f.temperatureSet {
		params.Temperature = &f.temperature
	}
	// The built-in default defers to each provider's own limit
	if params.MaxTokens == 0 && cfg.MaxTokens != config.DefaultMaxTokens {
		params.MaxTokens = cfg.MaxTokens
	}
	return params
}
