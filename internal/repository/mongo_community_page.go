package repository

import (
	"context"
	"fmt"

	"github.com/community-cms-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoCommunityPageRepo struct {
	col *mongo.Collection
}

// NewMongoCommunityPageRepo creates a community page repository on MongoDB
func NewMongoCommunityPageRepo(db *mongo.Database) CommunityPageRepository {
	return &mongoCommunityPageRepo{col: db.Collection(colCommunityPages)}
}

func (r *mongoCommunityPageRepo) UpsertByCommunity(ctx context.Context, page *models.CommunityPage) (*models.CommunityPage, error) {
	set := bson.M{
		"community":      page.Community,
		"slug":           page.Slug,
		"tagline":        page.Tagline,
		"description":    page.Description,
		"schools":        page.Schools,
		"safety":         page.Safety,
		"commute":        page.Commute,
		"keyFeatures":    page.KeyFeatures,
		"marketSnapshot": page.MarketSnapshot,
		"seo":            page.SEO,
		"updatedAt":      page.UpdatedAt,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	switch {
	case page.HeroImage != "":
		set["heroImage"] = page.HeroImage
		update["$unset"] = bson.M{"heroImageURL": ""}
	case page.HeroImageURL != "":
		set["heroImageURL"] = page.HeroImageURL
		update["$unset"] = bson.M{"heroImage": ""}
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	saved := new(models.CommunityPage)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"community": page.Community}, update, opts).Decode(saved)
	if err != nil {
		return nil, fmt.Errorf("upsert community page %q: %w", page.Community, err)
	}
	return saved, nil
}

func (r *mongoCommunityPageRepo) List(ctx context.Context) ([]*models.CommunityPage, error) {
	return findAll[models.CommunityPage](ctx, r.col, bson.M{}, sortDesc("updatedAt"))
}

func (r *mongoCommunityPageRepo) GetByID(ctx context.Context, id string) (*models.CommunityPage, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return findOne[models.CommunityPage](ctx, r.col, bson.M{"_id": oid})
}

func (r *mongoCommunityPageRepo) GetBySlug(ctx context.Context, slug string) (*models.CommunityPage, error) {
	return findOne[models.CommunityPage](ctx, r.col, bson.M{"slug": slug})
}

func (r *mongoCommunityPageRepo) GetByIDs(ctx context.Context, ids []string) ([]*models.CommunityPage, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*models.CommunityPage{}, nil
	}
	return findAll[models.CommunityPage](ctx, r.col, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoCommunityPageRepo) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type mongoSelectionRepo struct {
	col *mongo.Collection
}

// NewMongoSelectionRepo creates the selected communities repository on MongoDB
func NewMongoSelectionRepo(db *mongo.Database) SelectionRepository {
	return &mongoSelectionRepo{col: db.Collection(colSelectedCommunities)}
}

func (r *mongoSelectionRepo) Get(ctx context.Context) (*models.SelectedCommunities, error) {
	record, err := findOne[models.SelectedCommunities](ctx, r.col, bson.M{})
	if err != nil {
		return nil, err
	}
	if record == nil || record.Selected == nil {
		return &models.SelectedCommunities{Selected: []string{}}, nil
	}
	return record, nil
}

// Save overwrites the first record found, creating it when the collection is empty
func (r *mongoSelectionRepo) Save(ctx context.Context, selected []string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{},
		bson.M{"$set": bson.M{"selected": selected}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save selected communities: %w", err)
	}
	return nil
}
