package gateway

import "context"

// CredentialSource supplies the process-wide default credential for a
// provider. An empty string means none is configured.
type CredentialSource interface {
	DefaultCredential(ctx context.Context, providerID string) string
}

// CredentialFunc adapts a function to CredentialSource.
type CredentialFunc func(ctx context.Context, providerID string) string

// DefaultCredential calls f.
func (f CredentialFunc) DefaultCredential(ctx context.Context, providerID string) string {
	return f(ctx, providerID)
}

// CredentialChain tries each source in order and returns the first non-empty
// credential.
type CredentialChain []CredentialSource

// DefaultCredential implements CredentialSource.
func (c CredentialChain) DefaultCredential(ctx context.Context, providerID string) string {
	for _, src := range c {
		if src == nil {
			continue
		}
		if cred := src.DefaultCredential(ctx, providerID); cred != "" {
			return cred
		}
	}
	return ""
}

// resolveCredential applies caller > default > empty precedence.
func (g *Gateway) resolveCredential(ctx context.Context, explicit, providerID string) string {
	if explicit != "" {
		return explicit
	}
	if g.credentials == nil {
		return ""
	}
	return g.credentials.DefaultCredential(ctx, providerID)
}
