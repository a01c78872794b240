package sqlite

import (
	"database/sql"
	"errors"
	"strings"
)

// Sentinel errors returned by storage operations.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("name already in use")
	ErrInvalidInput    = errors.New("invalid input")
	ErrStorageClosed   = errors.New("storage is closed")
	ErrEncryptionError = errors.New("credential encryption failed")
)

// notFound maps sql.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
