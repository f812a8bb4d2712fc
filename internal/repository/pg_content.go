package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/community-cms-api/internal/database"
	"github.com/community-cms-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// pgFAQRepo is the PostgreSQL implementation of FAQRepository
type pgFAQRepo struct {
	db *database.DB
}

// NewPGFAQRepo creates a FAQ repository on PostgreSQL
func NewPGFAQRepo(db *database.DB) FAQRepository {
	return &pgFAQRepo{db: db}
}

// List returns all FAQs, newest first
func (r *pgFAQRepo) List(ctx context.Context) ([]*models.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, question, answer, created_at, updated_at
		FROM faqs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	faqs := make([]*models.FAQ, 0)
	for rows.Next() {
		var faq models.FAQ
		if err := rows.Scan(&faq.ID, &faq.Category, &faq.Question, &faq.Answer, &faq.CreatedAt, &faq.UpdatedAt); err != nil {
			return nil, err
		}
		faqs = append(faqs, &faq)
	}
	return faqs, rows.Err()
}

// Create inserts a new FAQ
func (r *pgFAQRepo) Create(ctx context.Context, faq *models.FAQ) error {
	if faq.ID == "" {
		faq.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO faqs (id, category, question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, faq.ID, faq.Category, faq.Question, faq.Answer, faq.CreatedAt, faq.UpdatedAt)
	return err
}

// Replace overwrites category, question and answer of an existing FAQ
func (r *pgFAQRepo) Replace(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error) {
	var faq models.FAQ
	err := r.db.QueryRowContext(ctx, `
		UPDATE faqs SET category = $2, question = $3, answer = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, category, question, answer, created_at, updated_at
	`, id, req.Category, req.Question, req.Answer, time.Now().UTC()).Scan(
		&faq.ID, &faq.Category, &faq.Question, &faq.Answer, &faq.CreatedAt, &faq.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// Delete removes a FAQ by ID
func (r *pgFAQRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM faqs WHERE id = $1", id)
	return err
}

const reviewColumns = `id, google_review_id, author_name, rating, content, profile_photo, review_date, is_selected`

// pgReviewRepo is the PostgreSQL implementation of GoogleReviewRepository
type pgReviewRepo struct {
	db *database.DB
}

// NewPGReviewRepo creates a google review repository on PostgreSQL
func NewPGReviewRepo(db *database.DB) GoogleReviewRepository {
	return &pgReviewRepo{db: db}
}

// UpsertByGoogleID inserts a review or refreshes its content, leaving is_selected alone
func (r *pgReviewRepo) UpsertByGoogleID(ctx context.Context, review *models.GoogleReview) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO google_reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		ON CONFLICT (google_review_id) DO UPDATE SET
			author_name = EXCLUDED.author_name,
			rating = EXCLUDED.rating,
			content = EXCLUDED.content,
			profile_photo = EXCLUDED.profile_photo,
			review_date = EXCLUDED.review_date
	`, uuid.New().String(), review.GoogleReviewID, review.AuthorName, review.Rating,
		review.Content, review.ProfilePhoto, review.ReviewDate)
	if err != nil {
		return fmt.Errorf("upsert review %s: %w", review.GoogleReviewID, err)
	}
	return nil
}

// List returns all reviews, newest review date first
func (r *pgReviewRepo) List(ctx context.Context) ([]*models.GoogleReview, error) {
	return r.query(ctx, "SELECT "+reviewColumns+" FROM google_reviews ORDER BY review_date DESC")
}

// ListSelected returns only flagged reviews
func (r *pgReviewRepo) ListSelected(ctx context.Context) ([]*models.GoogleReview, error) {
	return r.query(ctx, "SELECT "+reviewColumns+" FROM google_reviews WHERE is_selected ORDER BY review_date DESC")
}

// SetSelected resets every flag and then flags ids
func (r *pgReviewRepo) SetSelected(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE google_reviews SET is_selected = FALSE"); err != nil {
		return fmt.Errorf("clear review selection: %w", err)
	}
	if len(ids) > 0 {
		if _, err := tx.ExecContext(ctx, "UPDATE google_reviews SET is_selected = TRUE WHERE id = ANY($1)", pq.Array(ids)); err != nil {
			return fmt.Errorf("flag selected reviews: %w", err)
		}
	}

	return tx.Commit()
}

func (r *pgReviewRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.GoogleReview, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*models.GoogleReview, 0)
	for rows.Next() {
		var review models.GoogleReview
		err := rows.Scan(
			&review.ID, &review.GoogleReviewID, &review.AuthorName, &review.Rating,
			&review.Content, &review.ProfilePhoto, &review.ReviewDate, &review.IsSelected,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	return reviews, rows.Err()
}

const resourceColumns = `id, title, file_url, file_name, file_size, mime_type, downloads, created_at, updated_at`

// pgResourceRepo is the PostgreSQL implementation of ResourceRepository
type pgResourceRepo struct {
	db *database.DB
}

// NewPGResourceRepo creates a resource repository on PostgreSQL
func NewPGResourceRepo(db *database.DB) ResourceRepository {
	return &pgResourceRepo{db: db}
}

// Create inserts resource metadata
func (r *pgResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	if resource.ID == "" {
		resource.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, resource.ID, resource.Title, resource.FileURL, resource.FileName, resource.FileSize,
		resource.MimeType, resource.Downloads, resource.CreatedAt, resource.UpdatedAt)
	return err
}

// List returns all resources, newest first
func (r *pgResourceRepo) List(ctx context.Context) ([]*models.Resource, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+resourceColumns+" FROM resources ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]*models.Resource, 0)
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}
	return resources, rows.Err()
}

// GetByID retrieves a resource by ID
func (r *pgResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	resource, err := scanResource(r.db.QueryRowContext(ctx, "SELECT "+resourceColumns+" FROM resources WHERE id = $1", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return resource, nil
}

// Delete removes resource metadata by ID
func (r *pgResourceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM resources WHERE id = $1", id)
	return err
}

func scanResource(row rowScanner) (*models.Resource, error) {
	var resource models.Resource
	err := row.Scan(
		&resource.ID, &resource.Title, &resource.FileURL, &resource.FileName, &resource.FileSize,
		&resource.MimeType, &resource.Downloads, &resource.CreatedAt, &resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}
