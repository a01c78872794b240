// Package credstore resolves default provider credentials from storage
// through a TTL cache.
package credstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

// DefaultTTL is how long a resolved credential stays cached.
const DefaultTTL = 5 * time.Minute

// Store is the storage the resolver reads from.
type Store interface {
	GetDefaultCredential(provider string) (*models.Credential, error)
}

// cachedCredential wraps a lookup result; credential is nil when the
// provider has no default.
type cachedCredential struct {
	credential *models.Credential
}

// Resolver resolves and caches default credentials by provider name.
// It implements gateway.CredentialSource.
type Resolver struct {
	store  Store
	cache  *ristretto.Cache[string, *cachedCredential]
	ttl    time.Duration
	logger *slog.Logger
}

// newCache creates a cache sized for a handful of providers.
func newCache() (*ristretto.Cache[string, *cachedCredential], error) {
	return ristretto.NewCache(&ristretto.Config[string, *cachedCredential]{
		NumCounters:        1e4,
		MaxCost:            1 << 10,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
}

// NewResolver creates a resolver with the given TTL; ttl <= 0 uses DefaultTTL.
func NewResolver(store Store, ttl time.Duration, logger *slog.Logger) (*Resolver, error) {
	cache, err := newCache()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{store: store, cache: cache, ttl: ttl, logger: logger}, nil
}

func cacheKey(provider string) string {
	return "cred:" + provider
}

// Resolve returns the default credential for a provider (cached). A
// provider without a default yields storage.ErrNotFound, which is cached too.
func (r *Resolver) Resolve(provider string) (*models.Credential, error) {
	key := cacheKey(provider)
	if cached, ok := r.cache.Get(key); ok {
		if cached.credential == nil {
			return nil, storage.ErrNotFound
		}
		return cached.credential, nil
	}

	cred, err := r.store.GetDefaultCredential(provider)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	r.cache.SetWithTTL(key, &cachedCredential{credential: cred}, 1, r.ttl)
	r.cache.Wait()

	if cred == nil {
		return nil, storage.ErrNotFound
	}
	return cred, nil
}

// DefaultCredential returns the stored default API key, or "" when none is
// stored or storage fails.
func (r *Resolver) DefaultCredential(_ context.Context, provider string) string {
	cred, err := r.Resolve(provider)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("credential lookup failed", "provider", provider, "error", err)
		}
		return ""
	}
	return cred.APIKey
}

// Invalidate removes a cached credential (call after credential update).
func (r *Resolver) Invalidate(provider string) {
	r.cache.Del(cacheKey(provider))
	r.cache.Wait()
}

// InvalidateAll empties the cache.
func (r *Resolver) InvalidateAll() {
	r.cache.Clear()
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.cache.Close()
}
