package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/domain"
)

// CategoryService manages SOP categories
type CategoryService struct {
	repo  domain.CategoryRepository
	cache StatsCache
}

// NewCategoryService creates a new category service
func NewCategoryService(repo domain.CategoryRepository, cache StatsCache) *CategoryService {
	return &CategoryService{repo: repo, cache: cache}
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// List returns all categories ordered by name
func (s *CategoryService) List(ctx context.Context) ([]domain.SopCategory, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.SopCategory{}
	}
	return categories, nil
}

// Create adds a category; names are unique
func (s *CategoryService) Create(ctx context.Context, input domain.CategoryInput) (*domain.SopCategory, error) {
	now := time.Now()
	category := &domain.SopCategory{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: optionalText(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	invalidateStats(ctx, s.cache)
	log.Info().Str("category", category.Name).Msg("Category created")
	return category, nil
}

// Update renames or re-describes a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input domain.CategoryInput) (*domain.SopCategory, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}

	category.Name = input.Name
	category.Description = optionalText(input.Description)
	category.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes a category that no SOP references
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return domain.ErrNotFound
	}

	count, err := s.repo.CountSops(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count sops: %w", err)
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryInUse) {
			return err
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	invalidateStats(ctx, s.cache)
	log.Info().Str("category", category.Name).Msg("Category deleted")
	return nil
}

// SeedDefaults ensures the built-in categories exist
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	now := time.Now()
	for _, input := range domain.DefaultCategories {
		category := &domain.SopCategory{
			ID:          uuid.New(),
			Name:        input.Name,
			Description: optionalText(input.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.EnsureByName(ctx, category); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", input.Name, err)
		}
	}
	return nil
}
