package provider

import (
	"github.com/mandalnilabja/goatchat/internal/config"
)

// Route is a resolved provider and model pair.
type Route struct {
	ProviderID string
	Model      string
}

// Router resolves user-facing model names (aliases, bare model ids) into
// routes against a registry. It is read-only after construction.
type Router struct {
	registry        *Registry
	slugMap         map[string]Route // Pre-resolved for O(1) lookup
	defaultProvider string
	defaultModel    string
}

// NewRouter creates a Router with pre-resolved model aliases.
// Aliases naming an unknown provider are skipped.
func NewRouter(registry *Registry, cfg *config.Config) *Router {
	r := &Router{
		registry:        registry,
		slugMap:         make(map[string]Route),
		defaultProvider: cfg.DefaultProvider,
		defaultModel:    cfg.DefaultModel,
	}

	// Build slug map at startup (not per-request)
	for _, alias := range cfg.Models {
		if _, err := registry.Lookup(alias.Provider); err != nil {
			continue
		}
		r.slugMap[alias.Slug] = Route{ProviderID: alias.Provider, Model: alias.Model}
	}
	return r
}

// Registry returns the underlying registry.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Resolve picks the provider and model for a request.
//
// Order: alias slug, explicit provider, provider listing the model, default
// provider. An empty model becomes the default model for the default
// provider, or the provider's first listed model otherwise. Unknown models
// are passed through unchanged.
func (r *Router) Resolve(providerID, model string) (Route, error) {
	if route, ok := r.slugMap[model]; ok && (providerID == "" || providerID == route.ProviderID) {
		return route, nil
	}

	if providerID == "" && model != "" {
		if id, ok := r.registry.ProviderForModel(model); ok {
			providerID = id
		}
	}
	if providerID == "" {
		providerID = r.defaultProvider
	}

	desc, err := r.registry.Lookup(providerID)
	if err != nil {
		return Route{}, err
	}

	if model == "" {
		switch {
		case providerID == r.defaultProvider && r.defaultModel != "":
			model = r.defaultModel
		case len(desc.Models) > 0:
			model = desc.Models[0]
		}
	}

	return Route{ProviderID: providerID, Model: model}, nil
}
