package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SopRepository handles SOP and evidence template data access
type SopRepository struct {
	db *DB
}

// NewSopRepository creates a new SOP repository
func NewSopRepository(db *DB) *SopRepository {
	return &SopRepository{db: db}
}

const sopSelect = `
	SELECT s.id, s.title, s.content, s.category_id, c.name, s.version, s.is_active,
	       s.created_by, u.name, s.created_at, s.updated_at
	FROM sops s
	JOIN sop_categories c ON c.id = s.category_id
	JOIN users u ON u.id = s.created_by
`

// Create inserts an SOP together with its evidence templates
func (r *SopRepository) Create(ctx context.Context, sop *domain.Sop) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO sops (id, title, content, category_id, version, is_active, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.Exec(ctx, query,
			sop.ID,
			sop.Title,
			sop.Content,
			sop.CategoryID,
			sop.Version,
			sop.IsActive,
			sop.CreatedBy,
			sop.CreatedAt,
			sop.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUnknownCategory
			}
			return fmt.Errorf("failed to create sop: %w", err)
		}

		return insertEvidence(ctx, tx, sop)
	})
}

// GetByID retrieves an SOP with category name, creator name and evidence
func (r *SopRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Sop, error) {
	var s domain.Sop
	err := r.db.Pool.QueryRow(ctx, sopSelect+` WHERE s.id = $1`, id).Scan(
		&s.ID,
		&s.Title,
		&s.Content,
		&s.CategoryID,
		&s.CategoryName,
		&s.Version,
		&s.IsActive,
		&s.CreatedBy,
		&s.CreatorName,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sop: %w", err)
	}

	sops := []domain.Sop{s}
	if err := r.loadEvidence(ctx, sops); err != nil {
		return nil, err
	}
	return &sops[0], nil
}

// List returns SOPs newest first, optionally filtered
func (r *SopRepository) List(ctx context.Context, filter domain.SopFilter) ([]domain.Sop, error) {
	var conds []string
	var args []any
	if filter.ActiveOnly {
		conds = append(conds, "s.is_active = TRUE")
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("s.category_id = $%d", len(args)))
	}

	query := sopSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.created_at DESC"

	return r.query(ctx, query, args...)
}

// ListActive returns active SOPs in store order for grounding
func (r *SopRepository) ListActive(ctx context.Context) ([]domain.Sop, error) {
	return r.query(ctx, sopSelect+` WHERE s.is_active = TRUE ORDER BY s.created_at ASC, s.id ASC`)
}

func (r *SopRepository) query(ctx context.Context, query string, args ...any) ([]domain.Sop, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sops: %w", err)
	}
	defer rows.Close()

	var sops []domain.Sop
	for rows.Next() {
		var s domain.Sop
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Content,
			&s.CategoryID,
			&s.CategoryName,
			&s.Version,
			&s.IsActive,
			&s.CreatedBy,
			&s.CreatorName,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sop: %w", err)
		}
		sops = append(sops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sops: %w", err)
	}

	if err := r.loadEvidence(ctx, sops); err != nil {
		return nil, err
	}
	return sops, nil
}

// loadEvidence fills the evidence templates of sops in one query
func (r *SopRepository) loadEvidence(ctx context.Context, sops []domain.Sop) error {
	if len(sops) == 0 {
		return nil
	}

	ids := make([]string, len(sops))
	index := make(map[uuid.UUID]int, len(sops))
	for i, s := range sops {
		ids[i] = s.ID.String()
		index[s.ID] = i
		sops[i].Evidence = []domain.EvidenceTemplate{}
	}

	query := `
		SELECT id, sop_id, description, created_at
		FROM evidence_templates
		WHERE sop_id = ANY($1::uuid[])
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load evidence templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.EvidenceTemplate
		if err := rows.Scan(&e.ID, &e.SopID, &e.Description, &e.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan evidence template: %w", err)
		}
		if i, ok := index[e.SopID]; ok {
			sops[i].Evidence = append(sops[i].Evidence, e)
		}
	}
	return rows.Err()
}

// Update writes every editable field. A non-nil evidence slice replaces the templates.
func (r *SopRepository) Update(ctx context.Context, sop *domain.Sop, evidence []string) error {
	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		query := `
			UPDATE sops
			SET title = $1, content = $2, category_id = $3, version = $4, is_active = $5, updated_at = $6
			WHERE id = $7
		`
		_, err := tx.Exec(ctx, query,
			sop.Title,
			sop.Content,
			sop.CategoryID,
			sop.Version,
			sop.IsActive,
			sop.UpdatedAt,
			sop.ID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrUnknownCategory
			}
			return fmt.Errorf("failed to update sop: %w", err)
		}

		if evidence == nil {
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM evidence_templates WHERE sop_id = $1`, sop.ID); err != nil {
			return fmt.Errorf("failed to clear evidence templates: %w", err)
		}
		sop.Evidence = domain.NewEvidence(sop.ID, evidence, sop.UpdatedAt)
		return insertEvidence(ctx, tx, sop)
	})
}

// Delete deletes an SOP and its evidence templates
func (r *SopRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sops WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sop: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func insertEvidence(ctx context.Context, tx pgx.Tx, sop *domain.Sop) error {
	if len(sop.Evidence) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range sop.Evidence {
		batch.Queue(
			`INSERT INTO evidence_templates (id, sop_id, description, created_at) VALUES ($1, $2, $3, $4)`,
			e.ID, e.SopID, e.Description, e.CreatedAt,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert evidence templates: %w", err)
	}
	return nil
}
