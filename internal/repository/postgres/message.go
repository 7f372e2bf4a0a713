package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/google/uuid"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListBySession retrieves the messages of a session in creation order
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.ChatMessage, error) {
	grouped, err := r.ListBySessions(ctx, []uuid.UUID{sessionID})
	if err != nil {
		return nil, err
	}
	return grouped[sessionID], nil
}

// ListBySessions retrieves messages for several sessions grouped by session
func (r *MessageRepository) ListBySessions(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]domain.ChatMessage, error) {
	out := make(map[uuid.UUID][]domain.ChatMessage, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(sessionIDs))
	for i, id := range sessionIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT id, session_id, role, content, image_url, created_at
		FROM chat_messages
		WHERE session_id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&m.Role,
			&m.Content,
			&m.ImageURL,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		out[m.SessionID] = append(out[m.SessionID], m)
	}

	return out, rows.Err()
}
