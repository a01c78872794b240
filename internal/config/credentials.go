package config

import (
	"context"
	"os"
	"strings"
)

// EnvCredentials resolves default credentials from the environment
// (<PROVIDER>_API_KEY) and then from the [credentials] table.
type EnvCredentials struct {
	file map[string]string
}

// NewEnvCredentials creates a credential source backed by cfg.
func NewEnvCredentials(cfg *Config) *EnvCredentials {
	return &EnvCredentials{file: cfg.Credentials}
}

// EnvVar returns the environment variable holding a provider's key.
func EnvVar(providerID string) string {
	name := strings.ToUpper(providerID)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_API_KEY"
}

// DefaultCredential returns the configured key for providerID, or "".
func (c *EnvCredentials) DefaultCredential(_ context.Context, providerID string) string {
	if key := os.Getenv(EnvVar(providerID)); key != "" {
		return key
	}
	return c.file[strings.ToLower(providerID)]
}
