package sqlite

import (
	"strings"
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
)

// DefaultTitle names a conversation until it is renamed.
const DefaultTitle = "New Chat"

const conversationColumns = `id, title, provider, model, created_at, updated_at`

// CreateConversation stores a new, empty conversation.
func (s *Storage) CreateConversation(conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if conv.Provider == "" || conv.Model == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(conv.Title) == "" {
		conv.Title = DefaultTitle
	}
	if conv.ID == "" {
		conv.ID = generateID("conv")
	}

	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	conv.Messages = nil

	_, err := s.db.Exec(`
		INSERT INTO conversations (id, title, provider, model, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, conv.ID, conv.Title, conv.Provider, conv.Model, conv.CreatedAt, conv.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// RenameConversation sets a new, non-empty title.
func (s *Storage) RenameConversation(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidInput
	}
	return s.updateConversation(`UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UTC(), id)
}

// SetConversationModel rebinds the conversation to provider and model.
func (s *Storage) SetConversationModel(id, provider, model string) error {
	if provider == "" || model == "" {
		return ErrInvalidInput
	}
	return s.updateConversation(`UPDATE conversations SET provider = ?, model = ?, updated_at = ? WHERE id = ?`,
		provider, model, time.Now().UTC(), id)
}

// ClearConversation removes every message but keeps the conversation.
func (s *Storage) ClearConversation(id string) error {
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

	result, err := tx.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteConversation removes a conversation and its messages.
func (s *Storage) DeleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Storage) updateConversation(query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetConversation retrieves a conversation with its messages in order.
func (s *Storage) GetConversation(id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	conv, err := scanConversation(s.db.QueryRow(
		`SELECT `+conversationColumns+` FROM conversations WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	messages, err := s.listMessages(id)
	if err != nil {
		return nil, err
	}
	conv.Messages = messages
	return conv, nil
}

// ListConversations returns conversations, most recently updated first,
// without their messages.
func (s *Storage) ListConversations(filter models.ConversationFilter) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	query := `SELECT ` + conversationColumns + ` FROM conversations c WHERE 1=1`
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		query += ` AND (LOWER(c.title) LIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM messages m WHERE m.conversation_id = c.id AND LOWER(m.content) LIKE ? ESCAPE '\'))`
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY c.updated_at DESC, c.id`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

func scanConversation(row rowScanner) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(&conv.ID, &conv.Title, &conv.Provider, &conv.Model, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &conv, nil
}
