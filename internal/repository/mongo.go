package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names, kept compatible with existing data. Documents use ObjectID _id values.
const (
	colCommunityPages      = "communitypages"
	colSelectedCommunities = "selected_communities"
	colFAQs                = "faqs"
	colGoogleReviews       = "googlereviews"
	colResources           = "resources"
)

// EnsureMongoIndexes creates the indexes the upsert keys rely on
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(colCommunityPages).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "community", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create community page indexes: %w", err)
	}

	_, err = db.Collection(colGoogleReviews).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "googleReviewId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create google review indexes: %w", err)
	}

	return nil
}

// objectID parses a hex document id, reporting false for ids no stored document can have
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// objectIDs parses ids, skipping the ones that are not valid hex
func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	return oids
}

// insertOne stores doc and returns the ObjectID the driver assigned, in hex.
// doc must leave _id empty so the driver generates it.
func insertOne(ctx context.Context, col *mongo.Collection, doc interface{}) (string, error) {
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// findAll runs a find and decodes every document into a non-nil slice
func findAll[T any](ctx context.Context, col *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]*T, error) {
	cur, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		doc := new(T)
		if err := cur.Decode(doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

// findOne decodes a single document, returning nil when nothing matches
func findOne[T any](ctx context.Context, col *mongo.Collection, filter interface{}) (*T, error) {
	doc := new(T)
	err := col.FindOne(ctx, filter).Decode(doc)
	if isNoDocuments(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func sortDesc(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
