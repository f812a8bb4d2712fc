package service

import (
	"context"
	"strings"
	"time"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

type faqService struct {
	repo repository.FAQRepository
	log  zerolog.Logger
}

func newFAQService(repo repository.FAQRepository, log zerolog.Logger) *faqService {
	return &faqService{
		repo: repo,
		log:  log.With().Str("service", "faq").Logger(),
	}
}

func (s *faqService) List(ctx context.Context) ([]*models.FAQ, error) {
	return s.repo.List(ctx)
}

func (s *faqService) Create(ctx context.Context, req *models.FAQRequest) (*models.FAQ, error) {
	if errs := validation.ValidateFAQ(req); len(errs) > 0 {
		return nil, errs
	}

	category := req.Category
	if category == "" {
		category = models.DefaultFAQCategory
	}

	now := time.Now().UTC()
	faq := &models.FAQ{
		Category:  category,
		Question:  strings.TrimSpace(req.Question),
		Answer:    req.Answer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, faq); err != nil {
		return nil, err
	}

	s.log.Debug().Str("id", faq.ID).Str("category", faq.Category).Msg("FAQ created")
	return faq, nil
}

// Update overwrites every field of the FAQ with req, empty values included
func (s *faqService) Update(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error) {
	trimmed := *req
	trimmed.Question = strings.TrimSpace(req.Question)

	faq, err := s.repo.Replace(ctx, id, &trimmed)
	if err != nil {
		return nil, err
	}
	if faq == nil {
		return nil, ErrNotFound
	}
	return faq, nil
}

func (s *faqService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
