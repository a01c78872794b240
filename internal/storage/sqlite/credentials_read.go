package sqlite

import (
	"fmt"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

const credentialColumns = `id, provider, name, data, is_default, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanCredential reads one row and decrypts its key.
func (s *Storage) scanCredential(row rowScanner) (*models.Credential, error) {
	var cred models.Credential
	var encryptedData string
	var isDefault int

	err := row.Scan(&cred.ID, &cred.Provider, &cred.Name, &encryptedData, &isDefault, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	apiKey, err := s.encryptor.Decrypt(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	cred.APIKey = apiKey
	cred.IsDefault = isDefault == 1
	return &cred, nil
}

// GetCredential retrieves a credential by ID.
func (s *Storage) GetCredential(id string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	return s.scanCredential(s.db.QueryRow(
		`SELECT `+credentialColumns+` FROM credentials WHERE id = ?`, id))
}

// GetCredentialByName retrieves a credential by its unique name.
func (s *Storage) GetCredentialByName(name string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	return s.scanCredential(s.db.QueryRow(
		`SELECT `+credentialColumns+` FROM credentials WHERE name = ?`, name))
}

// GetDefaultCredential retrieves the default credential for a provider.
func (s *Storage) GetDefaultCredential(provider string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	return s.scanCredential(s.db.QueryRow(
		`SELECT `+credentialColumns+` FROM credentials WHERE provider = ? AND is_default = 1`, provider))
}

// ListCredentials retrieves all credentials, newest first.
func (s *Storage) ListCredentials() ([]*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`SELECT ` + credentialColumns + ` FROM credentials ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credentials []*models.Credential
	for rows.Next() {
		cred, err := s.scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, cred)
	}

	return credentials, rows.Err()
}
