// Package admin serves credential management and request-log endpoints.
package admin

import (
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// Store is the persistence admin handlers need.
type Store interface {
	storage.CredentialStore
	storage.RequestLogStore
	ListConversations(filter storage.ConversationFilter) ([]*storage.Conversation, error)
}

// CredentialCache drops cached default credentials after a change.
// *credstore.Resolver satisfies it.
type CredentialCache interface {
	InvalidateAll()
}

// Registry validates provider identifiers.
type Registry interface {
	Lookup(id string) (*types.Descriptor, error)
}

// Handlers holds the dependencies for admin HTTP handlers.
type Handlers struct {
	Storage   Store
	Cache     CredentialCache
	Registry  Registry
	StartTime time.Time
}

// New creates a new instance of admin handlers. cache may be nil.
func New(store Store, cache CredentialCache, registry Registry, startTime time.Time) *Handlers {
	return &Handlers{
		Storage:   store,
		Cache:     cache,
		Registry:  registry,
		StartTime: startTime,
	}
}

// invalidateCredentials drops cached defaults so the next call rereads
// storage.
func (h *Handlers) invalidateCredentials() {
	if h.Cache != nil {
		h.Cache.InvalidateAll()
	}
}

func (h *Handlers) knownProvider(id string) bool {
	if h.Registry == nil {
		return id != ""
	}
	_, err := h.Registry.Lookup(id)
	return err == nil
}
