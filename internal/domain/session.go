package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ChatSession represents a conversation thread owned by one user
type ChatSession struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"userId"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// ChatTurn is everything one chat request writes
type ChatTurn struct {
	Session          *ChatSession
	NewSession       bool
	UserMessage      *ChatMessage
	AssistantMessage *ChatMessage
}

// SessionStatus is derived for display only; it is never persisted
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// ActiveWindow is how long after its last message a session still counts as active
const ActiveWindow = 30 * time.Minute

// StatusAt derives the display status of a session last updated at updatedAt
func StatusAt(updatedAt, now time.Time) SessionStatus {
	if now.Sub(updatedAt) <= ActiveWindow {
		return SessionActive
	}
	return SessionCompleted
}

// SessionSummary is one row of the administrator chat overview
type SessionSummary struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	UserID       uuid.UUID     `json:"userId"`
	UserName     string        `json:"userName"`
	UserRole     Role          `json:"userRole"`
	StartTime    time.Time     `json:"startTime"`
	LastActivity time.Time     `json:"lastActivity"`
	MessageCount int           `json:"messageCount"`
	LastMessage  string        `json:"lastMessage"`
	Status       SessionStatus `json:"status"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	// GetOwned returns the session only when it belongs to userID
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*ChatSession, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]ChatSession, error)
	ListSummaries(ctx context.Context, limit, offset int) ([]SessionSummary, error)
	// SaveTurn persists a turn atomically: optional session insert, both
	// messages, and the session's updated_at
	SaveTurn(ctx context.Context, turn *ChatTurn) error
	// DeleteOwned deletes the session and its messages; false when nothing matched
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error)
}
