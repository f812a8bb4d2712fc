package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/community-cms-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoFAQRepo struct {
	col *mongo.Collection
}

// NewMongoFAQRepo creates a FAQ repository on MongoDB
func NewMongoFAQRepo(db *mongo.Database) FAQRepository {
	return &mongoFAQRepo{col: db.Collection(colFAQs)}
}

func (r *mongoFAQRepo) List(ctx context.Context) ([]*models.FAQ, error) {
	return findAll[models.FAQ](ctx, r.col, bson.M{}, sortDesc("createdAt"))
}

func (r *mongoFAQRepo) Create(ctx context.Context, faq *models.FAQ) error {
	faq.ID = ""
	id, err := insertOne(ctx, r.col, faq)
	if err != nil {
		return err
	}
	faq.ID = id
	return nil
}

func (r *mongoFAQRepo) Replace(ctx context.Context, id string, req *models.FAQRequest) (*models.FAQ, error) {
	update := bson.M{"$set": bson.M{
		"category":  req.Category,
		"question":  req.Question,
		"answer":    req.Answer,
		"updatedAt": time.Now().UTC(),
	}}

	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}

	faq := new(models.FAQ)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(faq)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return faq, nil
}

func (r *mongoFAQRepo) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type mongoReviewRepo struct {
	col *mongo.Collection
}

// NewMongoReviewRepo creates a google review repository on MongoDB
func NewMongoReviewRepo(db *mongo.Database) GoogleReviewRepository {
	return &mongoReviewRepo{col: db.Collection(colGoogleReviews)}
}

func (r *mongoReviewRepo) UpsertByGoogleID(ctx context.Context, review *models.GoogleReview) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"googleReviewId": review.GoogleReviewID},
		bson.M{
			"$set": bson.M{
				"googleReviewId": review.GoogleReviewID,
				"authorName":     review.AuthorName,
				"rating":         review.Rating,
				"content":        review.Content,
				"profilePhoto":   review.ProfilePhoto,
				"reviewDate":     review.ReviewDate,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"isSelected": false,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert review %s: %w", review.GoogleReviewID, err)
	}
	return nil
}

func (r *mongoReviewRepo) List(ctx context.Context) ([]*models.GoogleReview, error) {
	return findAll[models.GoogleReview](ctx, r.col, bson.M{}, sortDesc("reviewDate"))
}

func (r *mongoReviewRepo) ListSelected(ctx context.Context) ([]*models.GoogleReview, error) {
	return findAll[models.GoogleReview](ctx, r.col, bson.M{"isSelected": true}, sortDesc("reviewDate"))
}

func (r *mongoReviewRepo) SetSelected(ctx context.Context, ids []string) error {
	if _, err := r.col.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"isSelected": false}}); err != nil {
		return fmt.Errorf("clear review selection: %w", err)
	}
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil
	}

	_, err := r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": oids}},
		bson.M{"$set": bson.M{"isSelected": true}},
	)
	if err != nil {
		return fmt.Errorf("flag selected reviews: %w", err)
	}
	return nil
}

type mongoResourceRepo struct {
	col *mongo.Collection
}

// NewMongoResourceRepo creates a resource repository on MongoDB
func NewMongoResourceRepo(db *mongo.Database) ResourceRepository {
	return &mongoResourceRepo{col: db.Collection(colResources)}
}

func (r *mongoResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	resource.ID = ""
	id, err := insertOne(ctx, r.col, resource)
	if err != nil {
		return err
	}
	resource.ID = id
	return nil
}

func (r *mongoResourceRepo) List(ctx context.Context) ([]*models.Resource, error) {
	return findAll[models.Resource](ctx, r.col, bson.M{}, sortDesc("createdAt"))
}

func (r *mongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return findOne[models.Resource](ctx, r.col, bson.M{"_id": oid})
}

func (r *mongoResourceRepo) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return nil
	}
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
