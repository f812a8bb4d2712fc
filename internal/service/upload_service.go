package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/storage"
	"github.com/rs/zerolog"
)

// SweepResult reports what a sweep found
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Removed []string `json:"removed"`
	DryRun  bool     `json:"dryRun"`
}

type uploadService struct {
	pages     repository.CommunityPageRepository
	resources repository.ResourceRepository
	blobs     storage.BlobStore
	grace     time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func newUploadService(repos *repository.Repositories, blobs storage.BlobStore, grace time.Duration, log zerolog.Logger) *uploadService {
	return &uploadService{
		pages:     repos.CommunityPage,
		resources: repos.Resource,
		blobs:     blobs,
		grace:     grace,
		now:       time.Now,
		log:       log.With().Str("service", "upload").Logger(),
	}
}

func (s *uploadService) Open(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	return s.blobs.Open(ctx, key)
}

// Sweep removes blobs that no document references and that are older than the
// grace period. The grace period covers uploads whose document is still being written.
func (s *uploadService) Sweep(ctx context.Context, dryRun bool) (*SweepResult, error) {
	referenced, err := s.referencedKeys(ctx)
	if err != nil {
		return nil, err
	}

	objects, err := s.blobs.List(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(objects), Removed: []string{}, DryRun: dryRun}
	cutoff := s.now().Add(-s.grace)
	for _, obj := range objects {
		if referenced[obj.Key] || obj.LastModified.After(cutoff) {
			continue
		}
		if !dryRun {
			if err := s.blobs.Remove(ctx, obj.Key); err != nil {
				return result, fmt.Errorf("remove orphan %s: %w", obj.Key, err)
			}
		}
		result.Removed = append(result.Removed, obj.Key)
	}

	s.log.Info().
		Int("scanned", result.Scanned).
		Int("removed", len(result.Removed)).
		Bool("dry_run", dryRun).
		Msg("Upload sweep completed")

	return result, nil
}

func (s *uploadService) referencedKeys(ctx context.Context) (map[string]bool, error) {
	pages, err := s.pages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list community pages: %w", err)
	}
	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	keys := make(map[string]bool, len(pages)+len(resources))
	for _, p := range pages {
		if p.HeroImage != "" {
			keys[p.HeroImage] = true
		}
	}
	for _, r := range resources {
		if key, err := storage.KeyFromURL(r.FileURL); err == nil {
			keys[key] = true
		}
		keys[storage.ResourcePrefix+r.FileName] = true
	}
	return keys, nil
}
