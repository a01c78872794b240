package types

import "slices"

// Placeholders expanded in endpoint templates.
const (
	PlaceholderModel  = "{model}"
	PlaceholderPrompt = "{prompt}"
)

// Descriptor is the static record of how to talk to one vendor API.
// Descriptors are built once at startup and never mutated.
type Descriptor struct {
	// ID is the provider identifier used in config and SendOptions.
	ID string

	// EndpointTemplate is the request URL; {model} is replaced by the
	// resolved model for vendors that put the model in the path.
	EndpointTemplate string

	// Models lists the commonly used models. Not enforced.
	Models []string

	// Headers builds the auth and vendor headers for a credential.
	Headers func(credential string) map[string]string

	// BuildRequest produces the JSON payload for a chat call.
	BuildRequest func(messages []ChatMessage, model string, opts RequestOptions) (any, error)

	// ExtractResponse pulls the assistant text out of a complete body.
	ExtractResponse func(body []byte) (string, error)

	// ExtractChunk pulls one delta out of a stream line. ok is false for
	// control lines, terminators and malformed data.
	ExtractChunk func(line string) (delta string, ok bool)

	// SupportsStream reports whether the vendor can stream.
	SupportsStream bool

	// PlainText marks vendors whose body is the answer itself, not JSON.
	PlainText bool

	// DefaultMaxTokens overrides DefaultMaxTokens for this vendor.
	DefaultMaxTokens int

	// Image is set for vendors with an image-generation variant.
	Image *ImageGeneration
}

// ImageGeneration describes a prompt-only image endpoint selected by model id.
type ImageGeneration struct {
	// Models served by the image endpoint instead of chat.
	Models []string

	// TextModels are served by chat; every other model is an image model.
	// Ignored when Models is non-empty.
	TextModels []string

	// EndpointTemplate with {prompt} and {model} placeholders.
	EndpointTemplate string

	// FallbackPrompt is used when the conversation has no user turn.
	FallbackPrompt string
}

// HasModel reports whether model is listed by the descriptor.
func (d *Descriptor) HasModel(model string) bool {
	return slices.Contains(d.Models, model)
}

// IsImageModel reports whether model is answered by the image variant.
func (d *Descriptor) IsImageModel(model string) bool {
	if d.Image == nil {
		return false
	}
	if len(d.Image.Models) > 0 {
		return slices.Contains(d.Image.Models, model)
	}
	return !slices.Contains(d.Image.TextModels, model)
}

// CanStream reports whether a chat call for model may stream.
func (d *Descriptor) CanStream(model string) bool {
	return d.SupportsStream && d.ExtractChunk != nil && !d.IsImageModel(model)
}
