package proxy

import (
	"net/http"

	"github.com/mandalnilabja/goatchat/internal/transport/http/handler/shared"
)

// ProviderInfo describes one registered provider.
type ProviderInfo struct {
	ID             string   `json:"id"`
	Models         []string `json:"models"`
	SupportsStream bool     `json:"supports_stream"`
	ImageModels    []string `json:"image_models,omitempty"`
	Default        bool     `json:"default,omitempty"`
}

// ListProviders handles GET /v1/providers.
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	registry := h.Router.Registry()
	defaultRoute, _ := h.Router.Resolve("", "")

	providers := make([]ProviderInfo, 0, len(registry.IDs()))
	for _, id := range registry.IDs() {
		desc, err := registry.Lookup(id)
		if err != nil {
			continue
		}
		info := ProviderInfo{
			ID:             desc.ID,
			Models:         desc.Models,
			SupportsStream: desc.SupportsStream,
			Default:        id == defaultRoute.ProviderID,
		}
		if desc.Image != nil {
			info.ImageModels = desc.Image.Models
		}
		providers = append(providers, info)
	}

	shared.WriteJSON(w, map[string]any{
		"providers":     providers,
		"default_model": defaultRoute.Model,
	}, http.StatusOK)
}
