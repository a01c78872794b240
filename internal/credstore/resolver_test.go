package credstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatchat/internal/gateway"
	"github.com/mandalnilabja/goatchat/internal/storage"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

type fakeStore struct {
	mu    sync.Mutex
	creds map[string]*models.Credential
	err   error
	calls int
}

func (f *fakeStore) GetDefaultCredential(provider string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cred, ok := f.creds[provider]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cred, nil
}

func (f *fakeStore) set(provider, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds[provider] = &models.Credential{Provider: provider, APIKey: key, IsDefault: true}
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFakeStore() *fakeStore {
	return &fakeStore{creds: map[string]*models.Credential{}}
}

var _ gateway.CredentialSource = (*Resolver)(nil)

func TestResolverCachesCredential(t *testing.T) {
	store := newFakeStore()
	store.set("openrouter", "sk-or-1")

	r, err := NewResolver(store, time.Minute, nil)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, "sk-or-1", r.DefaultCredential(context.Background(), "openrouter"))
	require.Equal(t, "sk-or-1", r.DefaultCredential(context.Background(), "openrouter"))
	require.Equal(t, 1, store.callCount())

	store.set("openrouter", "sk-or-2")
	require.Equal(t, "sk-or-1", r.DefaultCredential(context.Background(), "openrouter"), "stale until invalidated")

	r.Invalidate("openrouter")
	require.Equal(t, "sk-or-2", r.DefaultCredential(context.Background(), "openrouter"))
	require.Equal(t, 2, store.callCount())
}

func TestResolverCachesMissingCredential(t *testing.T) {
	store := newFakeStore()

	r, err := NewResolver(store, time.Minute, nil)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Resolve("gemini")
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.Empty(t, r.DefaultCredential(context.Background(), "gemini"))
	require.Equal(t, 1, store.callCount())

	store.set("gemini", "g-key")
	r.InvalidateAll()
	require.Equal(t, "g-key", r.DefaultCredential(context.Background(), "gemini"))
}

func TestResolverExpires(t *testing.T) {
	store := newFakeStore()
	store.set("openai", "sk-1")

	r, err := NewResolver(store, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, "sk-1", r.DefaultCredential(context.Background(), "openai"))
	store.set("openai", "sk-2")

	require.Eventually(t, func() bool {
		return r.DefaultCredential(context.Background(), "openai") == "sk-2"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestResolverStorageErrorIsNotCached(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("database is locked")

	r, err := NewResolver(store, time.Minute, nil)
	require.NoError(t, err)
	defer r.Close()

	require.Empty(t, r.DefaultCredential(context.Background(), "openai"))
	require.Empty(t, r.DefaultCredential(context.Background(), "openai"))
	require.Equal(t, 2, store.callCount())
}

func TestResolverInChain(t *testing.T) {
	store := newFakeStore()
	store.set("openrouter", "stored")

	r, err := NewResolver(store, 0, nil)
	require.NoError(t, err)
	defer r.Close()

	chain := gateway.CredentialChain{
		r,
		gateway.CredentialFunc(func(_ context.Context, id string) string { return "env-" + id }),
	}

	require.Equal(t, "stored", chain.DefaultCredential(context.Background(), "openrouter"))
	require.Equal(t, "env-anthropic", chain.DefaultCredential(context.Background(), "anthropic"))
}
