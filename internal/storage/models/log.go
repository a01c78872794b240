package models

import "time"

// RequestLog records one gateway call.
type RequestLog struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	IsStreaming    bool      `json:"is_streaming"`
	StatusCode     int       `json:"status_code"`
	ErrorKind      string    `json:"error_kind,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// LogFilter contains parameters for filtering request logs
type LogFilter struct {
	ConversationID string
	Provider       string
	Model          string
	StartDate      *time.Time
	EndDate        *time.Time
	Limit          int
	Offset         int
}
