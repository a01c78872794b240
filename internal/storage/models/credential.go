// Package models contains data models for storage operations.
package models

import "time"

// Credential is a stored API key for one provider. At most one credential
// per provider is the default.
type Credential struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"` // registry id, lowercase
	Name      string    `json:"name"`     // unique across providers
	APIKey    string    `json:"api_key"`  // plaintext in memory, AES-GCM at rest
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialPreview is a safe representation of a credential (key masked)
type CredentialPreview struct {
	ID            string    `json:"id"`
	Provider      string    `json:"provider"`
	Name          string    `json:"name"`
	APIKeyPreview string    `json:"api_key_preview"` // e.g., "sk-or-...3f9a"
	IsDefault     bool      `json:"is_default"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MaskAPIKey keeps the first six and last four characters of key. Keys of
// ten characters or fewer become "***".
func MaskAPIKey(key string) string {
	if len(key) <= 10 {
		return "***"
	}
	return key[:6] + "..." + key[len(key)-4:]
}

// ToPreview converts a Credential to a safe CredentialPreview
func (c *Credential) ToPreview() *CredentialPreview {
	return &CredentialPreview{
		ID:            c.ID,
		Provider:      c.Provider,
		Name:          c.Name,
		APIKeyPreview: MaskAPIKey(c.APIKey),
		IsDefault:     c.IsDefault,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
