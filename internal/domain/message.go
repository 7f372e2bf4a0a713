package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage represents one persisted chat message
type ChatMessage struct {
	ID        uuid.UUID   `json:"id"`
	SessionID uuid.UUID   `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	ImageURL  *string     `json:"imageUrl"`
	CreatedAt time.Time   `json:"createdAt"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]ChatMessage, error)
	ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]ChatMessage, error)
}
