package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/community-cms-api/internal/database"
	"github.com/community-cms-api/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const communityPageColumns = `id, community, slug, tagline, description, schools, safety,
	commute, key_features, market_snapshot, seo, hero_image, hero_image_url, updated_at`

// pgCommunityPageRepo is the PostgreSQL implementation of CommunityPageRepository
type pgCommunityPageRepo struct {
	db *database.DB
}

// NewPGCommunityPageRepo creates a community page repository on PostgreSQL
func NewPGCommunityPageRepo(db *database.DB) CommunityPageRepository {
	return &pgCommunityPageRepo{db: db}
}

// UpsertByCommunity inserts or overwrites the page keyed by community.
// $13 is the uploaded file name and $14 the external URL; at most one is non-empty.
func (r *pgCommunityPageRepo) UpsertByCommunity(ctx context.Context, page *models.CommunityPage) (*models.CommunityPage, error) {
	features := page.KeyFeatures
	if features == nil {
		features = []string{}
	}

	var commuteJSON, featuresJSON, snapshotJSON, seoJSON string
	for _, col := range []struct {
		name string
		src  interface{}
		dst  *string
	}{
		{"commute", page.Commute, &commuteJSON},
		{"key_features", features, &featuresJSON},
		{"market_snapshot", page.MarketSnapshot, &snapshotJSON},
		{"seo", page.SEO, &seoJSON},
	} {
		raw, err := json.Marshal(col.src)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", col.name, err)
		}
		*col.dst = string(raw)
	}

	query := `
		INSERT INTO community_pages (id, community, slug, tagline, description, schools, safety,
			commute, key_features, market_snapshot, seo, hero_image, hero_image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb, $13, $14, $12)
		ON CONFLICT (community) DO UPDATE SET
			slug = EXCLUDED.slug,
			tagline = EXCLUDED.tagline,
			description = EXCLUDED.description,
			schools = EXCLUDED.schools,
			safety = EXCLUDED.safety,
			commute = EXCLUDED.commute,
			key_features = EXCLUDED.key_features,
			market_snapshot = EXCLUDED.market_snapshot,
			seo = EXCLUDED.seo,
			hero_image = CASE WHEN $13 <> '' THEN $13 WHEN $14 <> '' THEN '' ELSE community_pages.hero_image END,
			hero_image_url = CASE WHEN $13 <> '' THEN '' WHEN $14 <> '' THEN $14 ELSE community_pages.hero_image_url END,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + communityPageColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New().String(), page.Community, page.Slug, page.Tagline, page.Description,
		page.Schools, page.Safety,
		commuteJSON, featuresJSON, snapshotJSON, seoJSON,
		page.UpdatedAt, page.HeroImage, page.HeroImageURL,
	)

	saved, err := scanCommunityPage(row)
	if err != nil {
		return nil, fmt.Errorf("upsert community page %q: %w", page.Community, err)
	}
	return saved, nil
}

// List returns all pages, most recently updated first
func (r *pgCommunityPageRepo) List(ctx context.Context) ([]*models.CommunityPage, error) {
	return r.query(ctx, "SELECT "+communityPageColumns+" FROM community_pages ORDER BY updated_at DESC")
}

// GetByID retrieves a page by ID
func (r *pgCommunityPageRepo) GetByID(ctx context.Context, id string) (*models.CommunityPage, error) {
	return r.queryOne(ctx, "SELECT "+communityPageColumns+" FROM community_pages WHERE id = $1", id)
}

// GetBySlug retrieves the first page with the given slug
func (r *pgCommunityPageRepo) GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error) {
	return r.queryOne(ctx, "SELECT "+communityPageColumns+" FROM community_pages WHERE slug = $1 ORDER BY updated_at DESC LIMIT 1", slug)
}

// GetByIDs retrieves every page whose ID is in ids; unknown IDs are skipped
func (r *pgCommunityPageRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.CommunityPage, error) {
	if len(ids) == 0 {
		return []*models.CommunityPage{}, nil
	}
	return r.query(ctx, "SELECT "+communityPageColumns+" FROM community_pages WHERE id = ANY($1)", pq.Array(ids))
}

// Delete removes a page by ID
func (r *pgCommunityPageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM community_pages WHERE id = $1", id)
	return err
}

func (r *pgCommunityPageRepo) queryOne(ctx context.Context, query string, args ...interface{}) (*models.CommunityPage, error) {
	page, err := scanCommunityPage(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *pgCommunityPageRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.CommunityPage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := make([]*models.CommunityPage, 0)
	for rows.Next() {
		page, err := scanCommunityPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func scanCommunityPage(row rowScanner) (*models.CommunityPage, error) {
	var page models.CommunityPage
	var commuteJSON, featuresJSON, snapshotJSON, seoJSON []byte

	err := row.Scan(
		&page.ID, &page.Community, &page.Slug, &page.Tagline, &page.Description,
		&page.Schools, &page.Safety,
		&commuteJSON, &featuresJSON, &snapshotJSON, &seoJSON,
		&page.HeroImage, &page.HeroImageURL, &page.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  interface{}
	}{
		{"commute", commuteJSON, &page.Commute},
		{"key_features", featuresJSON, &page.KeyFeatures},
		{"market_snapshot", snapshotJSON, &page.MarketSnapshot},
		{"seo", seoJSON, &page.SEO},
	} {
		// NULL columns keep the zero value
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode %s of community page %s: %w", col.name, page.ID, err)
		}
	}
	if page.KeyFeatures == nil {
		page.KeyFeatures = []string{}
	}

	return &page, nil
}

// pgSelectionRepo keeps the selection in a single row with id 1
type pgSelectionRepo struct {
	db *database.DB
}

// NewPGSelectionRepo creates the selected communities repository on PostgreSQL
func NewPGSelectionRepo(db *database.DB) SelectionRepository {
	return &pgSelectionRepo{db: db}
}

func (r *pgSelectionRepo) Get(ctx context.Context) (*models.SelectedCommunities, error) {
	var selectedJSON []byte
	err := r.db.QueryRowContext(ctx, "SELECT selected FROM selected_communities WHERE id = 1").Scan(&selectedJSON)
	if err == sql.ErrNoRows {
		return &models.SelectedCommunities{Selected: []string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	record := &models.SelectedCommunities{}
	if err := json.Unmarshal(selectedJSON, &record.Selected); err != nil {
		return nil, fmt.Errorf("decode selected communities: %w", err)
	}
	if record.Selected == nil {
		record.Selected = []string{}
	}
	return record, nil
}

func (r *pgSelectionRepo) Save(ctx context.Context, selected []string) error {
	if selected == nil {
		selected = []string{}
	}
	selectedJSON, _ := json.Marshal(selected)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO selected_communities (id, selected) VALUES (1, $1::jsonb)
		ON CONFLICT (id) DO UPDATE SET selected = EXCLUDED.selected
	`, string(selectedJSON))
	if err != nil {
		return fmt.Errorf("save selected communities: %w", err)
	}
	return nil
}
