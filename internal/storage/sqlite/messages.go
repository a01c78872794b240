package sqlite

import (
	"time"

	"github.com/mandalnilabja/goatchat/internal/storage/models"
	"github.com/mandalnilabja/goatchat/internal/types"
)

// AddMessage appends msg to its conversation and bumps the conversation's
// updated_at. Status defaults to sent.
func (s *Storage) AddMessage(msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if msg.ConversationID == "" || !types.IsValidRole(msg.Role) {
		return ErrInvalidInput
	}
	if msg.Status == "" {
		msg.Status = models.StatusSent
	}
	if !validStatus(msg.Status) {
		return ErrInvalidInput
	}
	if msg.ID == "" {
		msg.ID = generateID("msg")
	}
	msg.CreatedAt = time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, msg.CreatedAt, msg.ConversationID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(`
		INSERT INTO messages (id, conversation_id, seq, role, content, status, created_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE conversation_id = ?), ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, msg.ConversationID, msg.Role, msg.Content, string(msg.Status), msg.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateMessage replaces the content and status of an existing message.
func (s *Storage) UpdateMessage(id, content string, status models.MessageStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if !validStatus(status) {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var conversationID string
	err = tx.QueryRow(`SELECT conversation_id FROM messages WHERE id = ?`, id).Scan(&conversationID)
	if err != nil {
		return notFound(err)
	}

	if _, err := tx.Exec(`UPDATE messages SET content = ?, status = ? WHERE id = ?`, content, string(status), id); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`, time.Now().UTC(), conversationID); err != nil {
		return err
	}

	return tx.Commit()
}

// listMessages returns a conversation's messages in insertion order.
// Callers hold s.mu.
func (s *Storage) listMessages(conversationID string) ([]*models.Message, error) {
	rows, err := s.db.Query(`
		SELECT id, conversation_id, role, content, status, created_at
		FROM messages WHERE conversation_id = ? ORDER BY seq
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var msg models.Message
		var status string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &status, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Status = models.MessageStatus(status)
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func validStatus(status models.MessageStatus) bool {
	switch status {
	case models.StatusSent, models.StatusStreaming, models.StatusError:
		return true
	}
	return false
}
