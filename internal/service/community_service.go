package service

import (
	"context"
	"fmt"
	"time"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/storage"
	"github.com/community-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// communityService is the concrete implementation of CommunityService
type communityService struct {
	pages        repository.CommunityPageRepository
	selection    repository.SelectionRepository
	blobs        storage.BlobStore
	maxImageSize int64
	log          zerolog.Logger
}

func newCommunityService(repos *repository.Repositories, blobs storage.BlobStore, maxImageSize int64, log zerolog.Logger) *communityService {
	return &communityService{
		pages:        repos.CommunityPage,
		selection:    repos.Selection,
		blobs:        blobs,
		maxImageSize: maxImageSize,
		log:          log.With().Str("service", "community").Logger(),
	}
}

// Upsert creates or overwrites the page keyed by form.Community.
// An uploaded hero image wins over form.HeroImageURL.
func (s *communityService) Upsert(ctx context.Context, form *models.CommunityPageForm, heroImage *Upload) (*models.CommunityPage, error) {
	if errs := validation.ValidateCommunityForm(form); len(errs) > 0 {
		return nil, errs
	}

	now := time.Now().UTC()
	page := &models.CommunityPage{
		Community:   form.Community,
		Slug:        form.Slug,
		Tagline:     form.Tagline,
		Description: form.Description,
		Schools:     form.Schools,
		Safety:      form.Safety,
		Commute: models.Commute{
			Downtown: form.Downtown,
			Airport:  form.Airport,
			Mall:     form.Mall,
		},
		KeyFeatures: validation.SplitKeyFeatures(form.KeyFeatures),
		MarketSnapshot: models.MarketSnapshot{
			StartingPrice:   form.StartingPrice,
			AvgDaysOnMarket: form.AvgDaysOnMarket,
			PropertyType:    form.PropertyType,
		},
		SEO: models.SEO{
			MetaTitle:       form.MetaTitle,
			MetaDescription: form.MetaDescription,
		},
		UpdatedAt: now,
	}

	if heroImage != nil {
		if err := validation.CheckSize(heroImage.Size, s.maxImageSize); err != nil {
			return nil, err
		}
		name := storage.FileName(heroImage.Filename, now)
		if err := s.blobs.Put(ctx, name, heroImage.Reader, heroImage.Size, heroImage.ContentType); err != nil {
			return nil, fmt.Errorf("store hero image: %w", err)
		}
		page.HeroImage = name
	} else if form.HeroImageURL != "" {
		page.HeroImageURL = form.HeroImageURL
	}

	saved, err := s.pages.UpsertByCommunity(ctx, page)
	if err != nil {
		if page.HeroImage != "" {
			if rmErr := s.blobs.Remove(ctx, page.HeroImage); rmErr != nil {
				s.log.Warn().Err(rmErr).Str("key", page.HeroImage).Msg("Failed to remove hero image after failed save")
			}
		}
		return nil, err
	}

	s.log.Info().
		Str("id", saved.ID).
		Str("community", saved.Community).
		Bool("hero_uploaded", page.HeroImage != "").
		Msg("Community page saved")

	return saved, nil
}

func (s *communityService) List(ctx context.Context) ([]*models.CommunityPage, error) {
	return s.pages.List(ctx)
}

func (s *communityService) Get(ctx context.Context, id string) (*models.CommunityPage, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

func (s *communityService) GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNotFound
	}
	return page, nil
}

// Delete removes the page document. The hero image is left for the upload sweeper.
func (s *communityService) Delete(ctx context.Context, id string) error {
	return s.pages.Delete(ctx, id)
}

// SaveSelection replaces the whole curated list
func (s *communityService) SaveSelection(ctx context.Context, selected []string) error {
	if selected == nil {
		selected = []string{}
	}
	return s.selection.Save(ctx, selected)
}

func (s *communityService) GetSelection(ctx context.Context) ([]string, error) {
	record, err := s.selection.Get(ctx)
	if err != nil {
		return nil, err
	}
	return record.Selected, nil
}

// PublicCommunities resolves the selection against stored pages.
// Unknown IDs are dropped and the result follows selection order.
func (s *communityService) PublicCommunities(ctx context.Context) ([]*models.CommunityPage, error) {
	selected, err := s.GetSelection(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := s.pages.GetByIDs(ctx, selected)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.CommunityPage, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
	}

	ordered := make([]*models.CommunityPage, 0, len(pages))
	for _, id := range selected {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}
