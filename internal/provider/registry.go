// Package provider holds the process-wide table of vendor descriptors.
package provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mandalnilabja/goatchat/internal/provider/anthropic"
	"github.com/mandalnilabja/goatchat/internal/provider/gemini"
	"github.com/mandalnilabja/goatchat/internal/provider/openaicompat"
	"github.com/mandalnilabja/goatchat/internal/provider/pollinations"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// ErrUnknownProvider is wrapped by Lookup failures.
var ErrUnknownProvider = errors.New("unknown provider")

// Registry maps provider identifiers to descriptors. It is read-only after
// construction and safe for concurrent use.
type Registry struct {
	descriptors map[string]*types.Descriptor
	order       []string
}

// NewRegistry returns a registry with every built-in vendor. First-party
// vendors come before the aggregators so shared model names route to the
// vendor that owns them.
func NewRegistry() *Registry {
	return NewRegistryWith(
		openaicompat.OpenAI(),
		anthropic.New(),
		gemini.New(),
		pollinations.New(),
		openaicompat.OpenRouter(),
		openaicompat.CloseRouter(),
	)
}

// NewRegistryWith builds a registry from explicit descriptors. A later
// descriptor with the same ID replaces an earlier one but keeps its
// position in the model lookup order.
func NewRegistryWith(descs ...*types.Descriptor) *Registry {
	r := &Registry{descriptors: make(map[string]*types.Descriptor, len(descs))}
	for _, d := range descs {
		if _, ok := r.descriptors[d.ID]; !ok {
			r.order = append(r.order, d.ID)
		}
		r.descriptors[d.ID] = d
	}
	return r
}

// Lookup returns the descriptor for id or a KindConfig gateway error.
func (r *Registry) Lookup(id string) (*types.Descriptor, error) {
	if d, ok := r.descriptors[id]; ok {
		return d, nil
	}
	return nil, types.NewConfigError(id, fmt.Errorf("%w: %q", ErrUnknownProvider, id))
}

// IDs returns the registered provider identifiers, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProviderForModel returns the first provider, in registration order, that
// lists model.
func (r *Registry) ProviderForModel(model string) (string, bool) {
	for _, id := range r.order {
		if r.descriptors[id].HasModel(model) {
			return id, true
		}
	}
	return "", false
}
