package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"classlib-backend/internal/domains/borrower/model"
	"classlib-backend/internal/domains/borrower/repository"
	"classlib-backend/pkg/cache"
)

// RosterCacheKey is bumped whenever the cached shape changes.
const RosterCacheKey = "roster:v1"

type rosterService struct {
	repo     repository.RepositoryInterface
	cache    cache.Cache     // optional
	enqueuer RefreshEnqueuer // optional
	ttl      time.Duration
}

// NewRosterService wires the roster read model. cache and enqueuer may be
// nil; the roster is then computed on every read.
func NewRosterService(repo repository.RepositoryInterface, c cache.Cache, enqueuer RefreshEnqueuer, ttl time.Duration) RosterService {
	return &rosterService{
		repo:     repo,
		cache:    c,
		enqueuer: enqueuer,
		ttl:      ttl,
	}
}

func (s *rosterService) Get(ctx context.Context) ([]model.RosterEntry, error) {
	if s.cache != nil {
		var cached []model.RosterEntry
		found, err := s.cache.Get(ctx, RosterCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Msg("roster cache read failed, falling back to database")
		} else if found {
			return cached, nil
		}
	}

	return s.Refresh(ctx)
}

func (s *rosterService) Refresh(ctx context.Context) ([]model.RosterEntry, error) {
	roster, err := s.repo.ListRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("build roster: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, RosterCacheKey, roster, s.ttl); err != nil {
			log.Warn().Err(err).Msg("roster cache write failed")
		}
	}

	return roster, nil
}

func (s *rosterService) Invalidate(ctx context.Context, reason string) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, RosterCacheKey); err != nil {
			log.Warn().Err(err).Str("reason", reason).Msg("roster cache invalidation failed")
		}
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueRosterRefresh(ctx, reason); err != nil {
			log.Warn().Err(err).Str("reason", reason).Msg("failed to enqueue roster refresh")
		}
	}
}
