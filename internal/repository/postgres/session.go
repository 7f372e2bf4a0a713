package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetOwned returns the session when it exists and belongs to userID
func (r *SessionRepository) GetOwned(ctx context.Context, id, userID uuid.UUID) (*domain.ChatSession, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE id = $1 AND user_id = $2
	`
	var s domain.ChatSession
	err := r.db.Pool.QueryRow(ctx, query, id, userID).Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// ListByUser returns the user's sessions, most recently active first. A limit
// of zero lists them all.
func (r *SessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ChatSession, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT NULLIF($2::int, 0) OFFSET $3
	`
	rows, err := r.db.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		var s domain.ChatSession
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Title,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListSummaries returns every session with its owner and message statistics
func (r *SessionRepository) ListSummaries(ctx context.Context, limit, offset int) ([]domain.SessionSummary, error) {
	query := `
		SELECT s.id, s.title, s.user_id, u.name, u.role, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = s.id),
		       COALESCE((
		           SELECT m.content FROM chat_messages m
		           WHERE m.session_id = s.id
		           ORDER BY m.created_at DESC
		           LIMIT 1
		       ), '')
		FROM chat_sessions s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list session summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.SessionSummary
	for rows.Next() {
		var s domain.SessionSummary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.UserID,
			&s.UserName,
			&s.UserRole,
			&s.StartTime,
			&s.LastActivity,
			&s.MessageCount,
			&s.LastMessage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SaveTurn writes one chat turn in a single transaction. An existing session
// row is locked first so concurrent turns on it are applied one after another.
func (r *SessionRepository) SaveTurn(ctx context.Context, turn *domain.ChatTurn) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		s := turn.Session

		if turn.NewSession {
			_, err := tx.Exec(ctx, `
				INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5)
			`, s.ID, s.UserID, s.Title, s.CreatedAt, s.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
		} else {
			var locked uuid.UUID
			err := tx.QueryRow(ctx, `SELECT id FROM chat_sessions WHERE id = $1 FOR UPDATE`, s.ID).Scan(&locked)
			if err != nil {
				return lockSessionError(s.ID, err)
			}
		}

		for _, m := range []*domain.ChatMessage{turn.UserMessage, turn.AssistantMessage} {
			_, err := tx.Exec(ctx, `
				INSERT INTO chat_messages (id, session_id, role, content, image_url, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, m.ID, s.ID, m.Role, m.Content, m.ImageURL, m.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
		}

		s.UpdatedAt = turn.AssistantMessage.CreatedAt
		if _, err := tx.Exec(ctx, `UPDATE chat_sessions SET updated_at = $1 WHERE id = $2`, s.UpdatedAt, s.ID); err != nil {
			return fmt.Errorf("failed to touch session: %w", err)
		}
		return nil
	})
}

// DeleteOwned deletes the session and, by cascade, its messages
func (r *SessionRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// lockSessionError keeps a session deleted between lookup and save an
// internal failure rather than a missing resource
func lockSessionError(id uuid.UUID, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("session %s deleted before turn was saved: %w", id, err)
	}
	return fmt.Errorf("failed to lock session: %w", err)
}
