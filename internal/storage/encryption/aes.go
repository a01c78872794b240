// Package encryption provides AES-256-GCM encryption for stored API keys.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"runtime"
)

// EnvKey names the variable holding the master passphrase.
const EnvKey = "GOATCHAT_ENCRYPTION_KEY"

// Encryptor provides encryption/decryption for sensitive data
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// AES implements AES-256-GCM encryption
type AES struct {
	key []byte
}

// New creates an encryptor keyed from GOATCHAT_ENCRYPTION_KEY, falling back
// to machine-derived material.
func New() (*AES, error) {
	keyMaterial := os.Getenv(EnvKey)
	if keyMaterial == "" {
		keyMaterial = deriveMachineKey()
	}
	return NewFromPassphrase(keyMaterial, nil)
}

// NewFromPassphrase derives the AES key from passphrase with Argon2id.
func NewFromPassphrase(passphrase string, params *KDFParams) (*AES, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase must not be empty")
	}
	return &AES{key: DeriveKey(passphrase, params)}, nil
}

// NewWithKey creates an encryptor with a specific key (for testing)
func NewWithKey(key []byte) (*AES, error) {
	if len(key) != 32 {
		return nil, errors.New("key must be 32 bytes for AES-256")
	}
	return &AES{key: key}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM. The result is
// base64(nonce || ciphertext).
func (e *AES) Encrypt(plaintext string) (string, error) {
	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (e *AES) Decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func (e *AES) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// deriveMachineKey creates a machine-specific key from available identifiers
func deriveMachineKey() string {
	material := "goatchat-default-key"

	if hostname, err := os.Hostname(); err == nil {
		material += hostname
	}
	if home, err := os.UserHomeDir(); err == nil {
		material += home
	}

	material += runtime.GOOS + runtime.GOARCH
	return material
}
