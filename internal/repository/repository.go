package repository

import (
	"context"

	"github.com/community-cms-api/internal/database"
	"github.com/community-cms-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Lookups by identifier return (nil, nil) when nothing matches.

// CommunityPageRepository defines the data operations for community pages
type CommunityPageRepository interface {
	// UpsertByCommunity creates or overwrites the page whose community equals page.Community.
	// A non-empty HeroImage clears the stored HeroImageURL and vice versa; when both
	// are empty the stored hero fields are kept.
	UpsertByCommunity(ctx context.Context, page *models.CommunityPage) (*models.CommunityPage, error)
	List(ctx context.Context) ([]*models.CommunityPage, error)
	GetByID(ctx context.Context, id string) (*models.CommunityPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.CommunityPage, error)
	Delete(ctx context.Context, id string) error
}

// SelectionRepository stores the singleton selected communities record
type SelectionRepository interface {
	Get(ctx context.Context) (*models.SelectedCommunities, error)
	Save(ctx context.Context, selected []string) error
}

// FAQRepository defines the data operations for FAQs
type FAQRepository interface {
	List(ctx context.Context) ([]*models.FAQ, error)
	Create(ctx context.Context, faq *models.FAQ) error
	Replace(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error)
	Delete(ctx context.Context, id string) error
}

// GoogleReviewRepository defines the data operations for synced reviews
type GoogleReviewRepository interface {
	// UpsertByGoogleID never changes IsSelected of an existing review
	UpsertByGoogleID(ctx context.Context, review *models.GoogleReview) error
	List(ctx context.Context) ([]*models.GoogleReview, error)
	ListSelected(ctx context.Context) ([]*models.GoogleReview, error)
	// SetSelected clears the flag on every review, then sets it on ids
	SetSelected(ctx context.Context, ids []string) error
}

// ResourceRepository defines the data operations for uploaded resources
type ResourceRepository interface {
	Create(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context) ([]*models.Resource, error)
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	Delete(ctx context.Context, id string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	CommunityPage CommunityPageRepository
	Selection     SelectionRepository
	FAQ           FAQRepository
	Review        GoogleReviewRepository
	Resource      ResourceRepository
}

// NewMongo creates all repositories backed by MongoDB collections
func NewMongo(db *mongo.Database) *Repositories {
	return &Repositories{
		CommunityPage: NewMongoCommunityPageRepo(db),
		Selection:     NewMongoSelectionRepo(db),
		FAQ:           NewMongoFAQRepo(db),
		Review:        NewMongoReviewRepo(db),
		Resource:      NewMongoResourceRepo(db),
	}
}

// NewPostgres creates all repositories backed by PostgreSQL tables
func NewPostgres(db *database.DB) *Repositories {
	return &Repositories{
		CommunityPage: NewPGCommunityPageRepo(db),
		Selection:     NewPGSelectionRepo(db),
		FAQ:           NewPGFAQRepo(db),
		Review:        NewPGReviewRepo(db),
		Resource:      NewPGResourceRepo(db),
	}
}
