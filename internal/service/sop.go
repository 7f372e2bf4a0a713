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

// SopService manages the SOP knowledge base
type SopService struct {
	repo  domain.SopRepository
	cache StatsCache
}

// NewSopService creates a new SOP service
func NewSopService(repo domain.SopRepository, cache StatsCache) *SopService {
	return &SopService{repo: repo, cache: cache}
}

// List returns SOPs newest first
func (s *SopService) List(ctx context.Context, filter domain.SopFilter) ([]domain.Sop, error) {
	sops, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sops: %w", err)
	}
	if sops == nil {
		sops = []domain.Sop{}
	}
	return sops, nil
}

// Get returns one SOP
func (s *SopService) Get(ctx context.Context, id uuid.UUID) (*domain.Sop, error) {
	sop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sop: %w", err)
	}
	if sop == nil {
		return nil, domain.ErrNotFound
	}
	return sop, nil
}

// Create adds an SOP authored by the caller. New SOPs start active at version 1.
func (s *SopService) Create(ctx context.Context, caller domain.Caller, input domain.SopCreate) (*domain.Sop, error) {
	now := time.Now()
	sop := &domain.Sop{
		ID:         uuid.New(),
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		Version:    1,
		IsActive:   true,
		CreatedBy:  caller.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	sop.Evidence = domain.NewEvidence(sop.ID, input.Evidence, now)

	if err := s.repo.Create(ctx, sop); err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create sop: %w", err)
	}

	invalidateStats(ctx, s.cache)
	log.Info().Str("sop_id", sop.ID.String()).Str("title", sop.Title).Msg("SOP created")
	return s.Get(ctx, sop.ID)
}

// Update replaces the SOP's editable fields. Evidence templates are replaced
// only when input.Evidence is present.
func (s *SopService) Update(ctx context.Context, id uuid.UUID, input domain.SopUpdate) (*domain.Sop, error) {
	sop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sop.Title = input.Title
	sop.Content = input.Content
	sop.CategoryID = input.CategoryID
	sop.Version = input.Version
	sop.IsActive = input.IsActive

	return s.save(ctx, sop, input.Evidence)
}

// Patch merges the supplied fields into the SOP
func (s *SopService) Patch(ctx context.Context, id uuid.UUID, patch domain.SopPatch) (*domain.Sop, error) {
	if patch.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	sop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(sop)

	var evidence []string
	if patch.Evidence != nil {
		evidence = *patch.Evidence
		if evidence == nil {
			evidence = []string{}
		}
	}
	return s.save(ctx, sop, evidence)
}

func (s *SopService) save(ctx context.Context, sop *domain.Sop, evidence []string) (*domain.Sop, error) {
	sop.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, sop, evidence); err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update sop: %w", err)
	}

	invalidateStats(ctx, s.cache)
	return s.Get(ctx, sop.ID)
}

// Delete removes an SOP and its evidence templates
func (s *SopService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sop: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	invalidateStats(ctx, s.cache)
	log.Info().Str("sop_id", id.String()).Msg("SOP deleted")
	return nil
}

// SeedSamples adds each sample SOP whose title is not taken yet, authored by
// author. Samples whose category is missing are skipped. It returns the number
// of SOPs created.
func (s *SopService) SeedSamples(ctx context.Context, author uuid.UUID, categories []domain.SopCategory, samples []domain.SampleSop) (int, error) {
	existing, err := s.repo.List(ctx, domain.SopFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to list sops: %w", err)
	}

	taken := make(map[string]bool, len(existing))
	for _, sop := range existing {
		taken[sop.Title] = true
	}

	byName := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	created := 0
	for _, sample := range samples {
		categoryID, ok := byName[sample.CategoryName]
		if !ok {
			log.Warn().Str("category", sample.CategoryName).Str("title", sample.Title).Msg("Sample SOP category missing, skipping")
			continue
		}
		if taken[sample.Title] {
			continue
		}

		now := time.Now()
		sop := &domain.Sop{
			ID:         uuid.New(),
			Title:      sample.Title,
			Content:    sample.Content,
			CategoryID: categoryID,
			Version:    1,
			IsActive:   true,
			CreatedBy:  author,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		sop.Evidence = domain.NewEvidence(sop.ID, sample.Evidence, now)

		if err := s.repo.Create(ctx, sop); err != nil {
			return created, fmt.Errorf("failed to seed sop %q: %w", sample.Title, err)
		}
		taken[sample.Title] = true
		created++
	}

	if created > 0 {
		invalidateStats(ctx, s.cache)
	}
	return created, nil
}
