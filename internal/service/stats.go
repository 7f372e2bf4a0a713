package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/sop-assistant/internal/domain"
)

// StatsCache holds dashboard counters between requests
type StatsCache interface {
	Get(ctx context.Context) (*domain.Stats, error)
	Set(ctx context.Context, stats *domain.Stats) error
	Invalidate(ctx context.Context) error
}

// StatsService serves the administrator dashboard counters
type StatsService struct {
	repo  domain.StatsRepository
	cache StatsCache
}

// NewStatsService creates a new stats service. cache may be nil.
func NewStatsService(repo domain.StatsRepository, cache StatsCache) *StatsService {
	return &StatsService{repo: repo, cache: cache}
}

// Get returns the counters, from cache when fresh
func (s *StatsService) Get(ctx context.Context) (*domain.Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	stats, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats); err != nil {
			log.Warn().Err(err).Msg("Stats cache write failed")
		}
	}
	return stats, nil
}

// invalidateStats drops cached counters after content changes
func invalidateStats(ctx context.Context, cache StatsCache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Stats cache invalidation failed")
	}
}
