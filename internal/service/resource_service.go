package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/storage"
	"github.com/community-cms-api/internal/validation"
	"github.com/rs/zerolog"
)

// ErrFileRequired is returned when a resource upload carries no file
var ErrFileRequired = errors.New("file is required")

type resourceService struct {
	repo    repository.ResourceRepository
	blobs   storage.BlobStore
	maxSize int64
	log     zerolog.Logger
}

func newResourceService(repo repository.ResourceRepository, blobs storage.BlobStore, maxSize int64, log zerolog.Logger) *resourceService {
	return &resourceService{
		repo:    repo,
		blobs:   blobs,
		maxSize: maxSize,
		log:     log.With().Str("service", "resource").Logger(),
	}
}

// Upload filters the file, stores it and records its metadata.
// Nothing is written when the file is rejected.
func (s *resourceService) Upload(ctx context.Context, title string, file *Upload) (*models.Resource, error) {
	if file == nil {
		return nil, ErrFileRequired
	}

	head, body, err := file.peek()
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := validation.CheckPDF(file.ContentType, head); err != nil {
		return nil, err
	}
	if err := validation.CheckSize(file.Size, s.maxSize); err != nil {
		return nil, err
	}
	if errs := validation.ValidateResourceTitle(title); len(errs) > 0 {
		return nil, errs
	}

	now := time.Now().UTC()
	name := storage.FileName(file.Filename, now)
	key := storage.ResourcePrefix + name
	if err := s.blobs.Put(ctx, key, body, file.Size, models.PDFMimeType); err != nil {
		return nil, fmt.Errorf("store resource: %w", err)
	}

	resource := &models.Resource{
		Title:     strings.TrimSpace(title),
		FileURL:   storage.URLForKey(key),
		FileName:  name,
		FileSize:  file.Size,
		MimeType:  models.PDFMimeType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		if rmErr := s.blobs.Remove(ctx, key); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("key", key).Msg("Failed to remove resource after failed save")
		}
		return nil, err
	}

	s.log.Info().Str("id", resource.ID).Str("file", name).Int64("size", file.Size).Msg("Resource uploaded")
	return resource, nil
}

func (s *resourceService) List(ctx context.Context) ([]*models.Resource, error) {
	return s.repo.List(ctx)
}

// Delete removes the stored file, then the document. A file that is already gone is fine.
func (s *resourceService) Delete(ctx context.Context, id string) error {
	resource, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resource == nil {
		return ErrNotFound
	}

	key, err := storage.KeyFromURL(resource.FileURL)
	if err != nil {
		key = storage.ResourcePrefix + resource.FileName
	}
	if err := s.blobs.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove resource file: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("id", id).Str("key", key).Msg("Resource deleted")
	return nil
}
