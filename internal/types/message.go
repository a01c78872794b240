// Package types provides the normalized chat model shared by the provider
// registry, the gateway and its callers.
package types

import (
	"errors"
	"fmt"
)

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyConversation is returned when there is nothing to send.
var ErrEmptyConversation = errors.New("conversation has no messages")

// ErrNotUserTurn is returned when the last message is not from the user.
var ErrNotUserTurn = errors.New("last message must be a user turn")

// ChatMessage is a role/content pair independent of any vendor's wire shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role, content string) ChatMessage {
	return ChatMessage{Role: role, Content: content}
}

// IsValidRole reports whether role is one of the normalized roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// ValidateConversation checks that messages form a valid completion request:
// non-empty, known roles, ending with a user turn.
func ValidateConversation(messages []ChatMessage) error {
	if len(messages) == 0 {
		return ErrEmptyConversation
	}
	for i, m := range messages {
		if !IsValidRole(m.Role) {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	if messages[len(messages)-1].Role != RoleUser {
		return ErrNotUserTurn
	}
	return nil
}

// LastUserMessage returns the most recent user message, if any.
func LastUserMessage(messages []ChatMessage) (ChatMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i], true
		}
	}
	return ChatMessage{}, false
}
