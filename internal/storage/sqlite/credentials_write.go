package sqlite

import (
	"fmt"
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

// CreateCredential stores a new credential. Marking it default clears any
// other default for the same provider.
func (s *Storage) CreateCredential(cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if cred.Provider == "" || cred.Name == "" || cred.APIKey == "" {
		return ErrInvalidInput
	}

	if cred.ID == "" {
		cred.ID = generateID("cred")
	}

	encryptedData, err := s.encryptor.Encrypt(cred.APIKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cred.IsDefault {
		if _, err := tx.Exec("UPDATE credentials SET is_default = 0 WHERE provider = ?", cred.Provider); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
		INSERT INTO credentials (id, provider, name, data, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, cred.ID, cred.Provider, cred.Name, encryptedData, boolToInt(cred.IsDefault), cred.CreatedAt, cred.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateCredential updates an existing credential.
func (s *Storage) UpdateCredential(cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if cred.ID == "" || cred.APIKey == "" {
		return ErrInvalidInput
	}

	encryptedData, err := s.encryptor.Encrypt(cred.APIKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncryptionError, err)
	}

	cred.UpdatedAt = time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if cred.IsDefault {
		if _, err := tx.Exec("UPDATE credentials SET is_default = 0 WHERE provider = ? AND id != ?", cred.Provider, cred.ID); err != nil {
			return err
		}
	}

	result, err := tx.Exec(`
		UPDATE credentials
		SET provider = ?, name = ?, data = ?, is_default = ?, updated_at = ?
		WHERE id = ?
	`, cred.Provider, cred.Name, encryptedData, boolToInt(cred.IsDefault), cred.UpdatedAt, cred.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// DeleteCredential removes a credential by ID.
func (s *Storage) DeleteCredential(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec("DELETE FROM credentials WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetDefaultCredential sets a credential as the default for its provider.
func (s *Storage) SetDefaultCredential(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var provider string
	err = tx.QueryRow("SELECT provider FROM credentials WHERE id = ?", id).Scan(&provider)
	if err != nil {
		return notFound(err)
	}

	if _, err := tx.Exec("UPDATE credentials SET is_default = 0 WHERE provider = ?", provider); err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE credentials SET is_default = 1, updated_at = ? WHERE id = ?", time.Now().UTC(), id); err != nil {
		return err
	}

	return tx.Commit()
}
