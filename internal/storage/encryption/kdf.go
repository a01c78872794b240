package encryption

import (
	"golang.org/x/crypto/argon2"
)

// KDFParams holds the Argon2id key-derivation parameters
type KDFParams struct {
	Memory      uint32 // Memory in KB
	Iterations  uint32 // Time parameter
	Parallelism uint8  // Threads
	Salt        []byte
}

// keyLength is the AES-256 key size.
const keyLength = 32

// defaultSalt is fixed so the same passphrase always opens the same store.
var defaultSalt = []byte("goatchat/credential-store/v1")

// DefaultKDFParams returns the parameters used for the credential store.
// Memory: 64MB, Iterations: 1, Parallelism: 4
func DefaultKDFParams() *KDFParams {
	return &KDFParams{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		Salt:        defaultSalt,
	}
}

// DeriveKey stretches passphrase into a 32-byte key.
func DeriveKey(passphrase string, params *KDFParams) []byte {
	if params == nil {
		params = DefaultKDFParams()
	}
	salt := params.Salt
	if len(salt) == 0 {
		salt = defaultSalt
	}
	return argon2.IDKey([]byte(passphrase), salt, params.Iterations, params.Memory, params.Parallelism, keyLength)
}
