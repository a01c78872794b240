package models

import "time"

// MessageStatus tracks an assistant message through a gateway call.
type MessageStatus string

// Message statuses
const (
	StatusSent      MessageStatus = "sent"
	StatusStreaming MessageStatus = "streaming"
	StatusError     MessageStatus = "error"
)

// Conversation is a titled, ordered chat history bound to a provider/model.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Provider  string     `json:"provider"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages,omitempty"`
}

// Message is one stored turn.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	Role           string        `json:"role"`
	Content        string        `json:"content"`
	Status         MessageStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ConversationFilter narrows ListConversations.
type ConversationFilter struct {
	// Query matches titles and message content, case-insensitively.
	Query  string
	Limit  int
	Offset int
}
