// Package storage provides the storage interface and implementations.
package storage

import (
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/encryption"
	"github.com/mandalnilabja/goatchat/internal/storage/models"
	"github.com/mandalnilabja/goatchat/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	Credential         = models.Credential
	CredentialPreview  = models.CredentialPreview
	Conversation       = models.Conversation
	ConversationFilter = models.ConversationFilter
	Message            = models.Message
	MessageStatus      = models.MessageStatus
	RequestLog         = models.RequestLog
	LogFilter          = models.LogFilter
)

// DefaultTitle names a conversation until it is renamed.
const DefaultTitle = sqlite.DefaultTitle

// Re-export message statuses
const (
	StatusSent      = models.StatusSent
	StatusStreaming = models.StatusStreaming
	StatusError     = models.StatusError
)

// Re-export functions from models package
var MaskAPIKey = models.MaskAPIKey

// Re-export errors from sqlite package
var (
	ErrNotFound        = sqlite.ErrNotFound
	ErrDuplicateKey    = sqlite.ErrDuplicateKey
	ErrInvalidInput    = sqlite.ErrInvalidInput
	ErrStorageClosed   = sqlite.ErrStorageClosed
	ErrEncryptionError = sqlite.ErrEncryptionError
)

// CredentialStore persists provider API keys.
type CredentialStore interface {
	CreateCredential(cred *models.Credential) error
	GetCredential(id string) (*models.Credential, error)
	GetCredentialByName(name string) (*models.Credential, error)
	GetDefaultCredential(provider string) (*models.Credential, error)
	ListCredentials() ([]*models.Credential, error)
	UpdateCredential(cred *models.Credential) error
	DeleteCredential(id string) error
	SetDefaultCredential(id string) error
}

// ConversationStore persists conversations and their messages.
type ConversationStore interface {
	CreateConversation(conv *models.Conversation) error
	GetConversation(id string) (*models.Conversation, error)
	ListConversations(filter models.ConversationFilter) ([]*models.Conversation, error)
	RenameConversation(id, title string) error
	SetConversationModel(id, provider, model string) error
	ClearConversation(id string) error
	DeleteConversation(id string) error
	AddMessage(msg *models.Message) error
	UpdateMessage(id, content string, status models.MessageStatus) error
}

// RequestLogStore records gateway calls.
type RequestLogStore interface {
	LogRequest(log *models.RequestLog) error
	GetRequestLogs(filter models.LogFilter) ([]*models.RequestLog, error)
	DeleteRequestLogs(olderThan time.Time) (int64, error)
}

// Storage defines the interface for persistent data storage
type Storage interface {
	CredentialStore
	ConversationStore
	RequestLogStore

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance keyed from the
// environment or machine. This is the main factory function for creating
// storage.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return NewSQLiteStorageWithEncryptor(dbPath, nil)
}

// NewSQLiteStorageWithEncryptor creates SQLite storage using enc for API keys.
func NewSQLiteStorageWithEncryptor(dbPath string, enc encryption.Encryptor) (Storage, error) {
	s, err := sqlite.New(dbPath, enc)
	if err != nil {
		return nil, err
	}
	return s, nil
}
