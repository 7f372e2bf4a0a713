package domain

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// HistoryMessage is a prior turn as held by the chat UI
type HistoryMessage struct {
	ID      string      `json:"id"`
	Role    MessageRole `json:"role" validate:"required,oneof=user assistant"`
	Content string      `json:"content"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message   string           `json:"message"`
	ImageURL  string           `json:"imageUrl" validate:"max=1024"`
	History   []HistoryMessage `json:"history" validate:"dive"`
	SessionID string           `json:"sessionId" validate:"max=64"`
}

// ChatResponse is the result of one chat turn
type ChatResponse struct {
	Response  string     `json:"response"`
	SessionID *uuid.UUID `json:"sessionId"`
}

// FileStore keeps uploaded files and hands back a retrievable reference
type FileStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Read(ctx context.Context, ref string) ([]byte, error)
}
