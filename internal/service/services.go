package service

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/community-cms-api/internal/config"
	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/community-cms-api/internal/storage"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a lookup by identifier matches nothing
	ErrNotFound = errors.New("not found")
	// ErrSourceNotConfigured is returned by Sync when no review source is wired
	ErrSourceNotConfigured = errors.New("review source not configured")
)

// sniffLen is how many leading bytes are inspected for content detection
const sniffLen = 512

// Upload is a file received in a multipart request
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// peek returns the first sniffLen bytes and a reader that still yields the whole file
func (u *Upload) peek() ([]byte, io.Reader, error) {
	br := bufio.NewReaderSize(u.Reader, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, nil, err
	}
	return head, br, nil
}

// CommunityService manages community pages and the curated selection
type CommunityService interface {
	Upsert(ctx context.Context, form *models.CommunityPageForm, heroImage *Upload) (*models.CommunityPage, error)
	List(ctx context.Context) ([]*models.CommunityPage, error)
	Get(ctx context.Context, id string) (*models.CommunityPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error)
	Delete(ctx context.Context, id string) error
	SaveSelection(ctx context.Context, selected []string) error
	GetSelection(ctx context.Context) ([]string, error)
	PublicCommunities(ctx context.Context) ([]*models.CommunityPage, error)
}

// FAQService manages FAQs
type FAQService interface {
	List(ctx context.Context) ([]*models.FAQ, error)
	Create(ctx context.Context, req *models.FAQRequest) (*models.FAQ, error)
	Update(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error)
	Delete(ctx context.Context, id string) error
}

// ReviewSource supplies reviews from an external provider
type ReviewSource interface {
	FetchReviews(ctx context.Context) ([]*models.GoogleReview, error)
}

// ReviewService syncs and curates Google reviews
type ReviewService interface {
	Sync(ctx context.Context) (int, error)
	List(ctx context.Context) ([]*models.GoogleReview, error)
	Select(ctx context.Context, ids []string) error
	ListSelected(ctx context.Context) ([]*models.GoogleReview, error)
}

// ResourceService manages downloadable PDF resources
type ResourceService interface {
	Upload(ctx context.Context, title string, file *Upload) (*models.Resource, error)
	List(ctx context.Context) ([]*models.Resource, error)
	Delete(ctx context.Context, id string) error
}

// UploadService serves stored files and removes orphans
type UploadService interface {
	Open(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error)
	Sweep(ctx context.Context, dryRun bool) (*SweepResult, error)
}

// Services holds all service interfaces
type Services struct {
	Community CommunityService
	FAQ       FAQService
	Review    ReviewService
	Resource  ResourceService
	Upload    UploadService

	// Ping reports document store health; nil means always healthy
	Ping func(ctx context.Context) error
}

// NewServices creates all services. source may be nil when review sync is not configured.
func NewServices(repos *repository.Repositories, blobs storage.BlobStore, source ReviewSource, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Community: newCommunityService(repos, blobs, cfg.Upload.MaxImageSize, log),
		FAQ:       newFAQService(repos.FAQ, log),
		Review:    newReviewService(repos.Review, source, log),
		Resource:  newResourceService(repos.Resource, blobs, cfg.Upload.MaxResourceSize, log),
		Upload:    newUploadService(repos, blobs, cfg.Upload.SweepGracePeriod, log),
	}
}
