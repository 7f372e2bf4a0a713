package postgres

import (
	"context"
	"fmt"

	"github.com/Rrens/sop-assistant/internal/domain"
)

// StatsRepository computes dashboard counters
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the counters in a single round trip
func (r *StatsRepository) Get(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM sops WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM sop_categories),
			(SELECT COUNT(*) FROM chat_sessions),
			(SELECT COUNT(*) FROM users)
	`

	var s domain.Stats
	if err := r.db.Pool.QueryRow(ctx, query).Scan(
		&s.TotalSops,
		&s.TotalCategories,
		&s.TotalChats,
		&s.ActiveUsers,
	); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return &s, nil
}
