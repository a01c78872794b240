package types

// Generation defaults applied when the caller leaves a field unset.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// SendOptions selects the provider and generation parameters for one call.
type SendOptions struct {
	// ProviderID selects the descriptor; empty uses the gateway default.
	ProviderID string

	// Credential overrides any configured default credential.
	Credential string

	// Model is sent as given, even when the provider does not list it.
	Model string

	// Stream requests incremental delivery when the provider supports it.
	Stream bool

	// Temperature is nil for the default (0.7).
	Temperature *float64

	// MaxTokens is 0 for the provider default.
	MaxTokens int
}

// RequestOptions are the resolved generation parameters handed to a
// descriptor's request builder.
type RequestOptions struct {
	Stream      bool
	Temperature float64
	MaxTokens   int
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// Resolve fills defaults for options against a descriptor.
func (o SendOptions) Resolve(desc *Descriptor) RequestOptions {
	resolved := RequestOptions{
		Stream:      o.Stream,
		Temperature: DefaultTemperature,
		MaxTokens:   o.MaxTokens,
	}
	if o.Temperature != nil {
		resolved.Temperature = *o.Temperature
	}
	if resolved.MaxTokens <= 0 {
		resolved.MaxTokens = DefaultMaxTokens
		if desc != nil && desc.DefaultMaxTokens > 0 {
			resolved.MaxTokens = desc.DefaultMaxTokens
		}
	}
	return resolved
}
