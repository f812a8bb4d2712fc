package service

import (
	"context"
	"fmt"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/rs/zerolog"
)

type reviewService struct {
	repo   repository.GoogleReviewRepository
	source ReviewSource
	log    zerolog.Logger
}

func newReviewService(repo repository.GoogleReviewRepository, source ReviewSource, log zerolog.Logger) *reviewService {
	return &reviewService{
		repo:   repo,
		source: source,
		log:    log.With().Str("service", "review").Logger(),
	}
}

// Sync pulls the latest reviews and upserts each by its Google ID.
// It stops at the first failed write; reviews written before it stay written.
func (s *reviewService) Sync(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, ErrSourceNotConfigured
	}

	reviews, err := s.source.FetchReviews(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch reviews: %w", err)
	}

	synced := 0
	for _, review := range reviews {
		if err := s.repo.UpsertByGoogleID(ctx, review); err != nil {
			s.log.Error().Err(err).Str("google_review_id", review.GoogleReviewID).Int("synced", synced).Msg("Review sync aborted")
			return synced, fmt.Errorf("upsert review %s: %w", review.GoogleReviewID, err)
		}
		synced++
	}

	s.log.Info().Int("synced", synced).Msg("Reviews synced")
	return synced, nil
}

func (s *reviewService) List(ctx context.Context) ([]*models.GoogleReview, error) {
	return s.repo.List(ctx)
}

// Select makes ids the exact set of selected reviews
func (s *reviewService) Select(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.repo.SetSelected(ctx, ids)
}

func (s *reviewService) ListSelected(ctx context.Context) ([]*models.GoogleReview, error) {
	return s.repo.ListSelected(ctx)
}
