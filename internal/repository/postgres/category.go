package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/sop-assistant/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CategoryRepository handles SOP category data access
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, c *domain.SopCategory) error {
	query := `
		INSERT INTO sop_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// EnsureByName creates the category unless one with the same name exists
func (r *CategoryRepository) EnsureByName(ctx context.Context, c *domain.SopCategory) error {
	query := `
		INSERT INTO sop_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`

	_, err := r.db.Pool.Exec(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to ensure category: %w", err)
	}

	return nil
}

// GetByID retrieves a category with its SOP count
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SopCategory, error) {
	query := `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM sops s WHERE s.category_id = c.id)
		FROM sop_categories c
		WHERE c.id = $1
	`

	var c domain.SopCategory
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.SopCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

// List returns all categories ordered by name with their SOP counts
func (r *CategoryRepository) List(ctx context.Context) ([]domain.SopCategory, error) {
	query := `
		SELECT c.id, c.name, c.description, c.created_at, c.updated_at, COUNT(s.id)
		FROM sop_categories c
		LEFT JOIN sops s ON s.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.SopCategory
	for rows.Next() {
		var c domain.SopCategory
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.SopCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Update updates a category's name and description
func (r *CategoryRepository) Update(ctx context.Context, c *domain.SopCategory) error {
	query := `
		UPDATE sop_categories
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	_, err := r.db.Pool.Exec(ctx, query, c.Name, c.Description, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// Delete deletes a category. Categories still referenced by SOPs are rejected by the foreign key.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM sop_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// CountSops returns how many SOPs reference the category
func (r *CategoryRepository) CountSops(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sops WHERE category_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sops: %w", err)
	}
	return count, nil
}
