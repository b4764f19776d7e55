package model

import (
	"time"

	"github.com/google/uuid"
)

// Role tags who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system" // attachment ingestion notices
)

// Message represents a chat message in the conversation.
// ID is assigned at creation and never changes. Content of an in-flight
// assistant message only ever grows.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// NewMessage creates a message with a fresh ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsTurn reports whether the message belongs to the user/assistant exchange
// that is sent to a backend. System notices are display-only.
func (m Message) IsTurn() bool {
	return m.Role == RoleUser || m.Role == RoleAssistant
}
