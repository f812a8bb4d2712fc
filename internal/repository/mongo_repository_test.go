package repository_test

import (
	"context"
	"testing"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/repository"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// startedCommand returns the first recorded command called name
func startedCommand(mt *mtest.T, name string) bson.Raw {
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == name {
			return evt.Command
		}
	}
	mt.Fatalf("no %s command was sent", name)
	return nil
}

func TestMongoRepositories(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert community page returns stored document", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: oid},
				{Key: "community", Value: "Oak Hills"},
				{Key: "slug", Value: "oak-hills"},
				{Key: "keyFeatures", Value: bson.A{"Parks", "Trails"}},
				{Key: "heroImage", Value: "1700000000000-ab12cd34-oak.jpg"},
			}},
		})

		saved, err := repo.UpsertByCommunity(context.Background(), &models.CommunityPage{
			Community:   "Oak Hills",
			Slug:        "oak-hills",
			KeyFeatures: []string{"Parks", "Trails"},
			HeroImage:   "1700000000000-ab12cd34-oak.jpg",
		})
		require.NoError(mt, err)
		require.Equal(mt, oid.Hex(), saved.ID)
		require.Equal(mt, []string{"Parks", "Trails"}, saved.KeyFeatures)
		require.Empty(mt, saved.HeroImageURL)

		cmd := startedCommand(mt, "findAndModify")
		require.Equal(mt, bson.TypeObjectID, cmd.Lookup("update", "$setOnInsert", "_id").Type)
	})

	mt.Run("get community page by slug", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.communitypages", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "community", Value: "Oak Hills"},
			{Key: "slug", Value: "oak-hills"},
		}))

		page, err := repo.GetBySlug(context.Background(), "oak-hills")
		require.NoError(mt, err)
		require.NotNil(mt, page)
		require.Equal(mt, "Oak Hills", page.Community)
	})

	mt.Run("get community page by id queries an ObjectID", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.communitypages", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "community", Value: "Oak Hills"},
		}))

		page, err := repo.GetByID(context.Background(), oid.Hex())
		require.NoError(mt, err)
		require.NotNil(mt, page)
		require.Equal(mt, oid.Hex(), page.ID)

		filter := startedCommand(mt, "find").Lookup("filter", "_id")
		require.Equal(mt, bson.TypeObjectID, filter.Type)
		require.Equal(mt, oid, filter.ObjectID())
	})

	mt.Run("missing community page is nil", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.communitypages", mtest.FirstBatch))

		page, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		require.Nil(mt, page)
	})

	mt.Run("malformed id is nil without a query", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)

		page, err := repo.GetByID(context.Background(), "missing")
		require.NoError(mt, err)
		require.Nil(mt, page)
		require.NoError(mt, repo.Delete(context.Background(), "missing"))
		require.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("list by ids skips malformed ids", func(mt *mtest.T) {
		repo := repository.NewMongoCommunityPageRepo(mt.DB)
		p1, p2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.communitypages", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: p1}, {Key: "community", Value: "A"}},
			bson.D{{Key: "_id", Value: p2}, {Key: "community", Value: "B"}},
		))

		pages, err := repo.GetByIDs(context.Background(), []string{p1.Hex(), p2.Hex(), "ghost"})
		require.NoError(mt, err)
		require.Len(mt, pages, 2)

		in, err := startedCommand(mt, "find").Lookup("filter", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, in, 2)
		for _, v := range in {
			require.Equal(mt, bson.TypeObjectID, v.Type)
		}
	})

	mt.Run("selection defaults to empty", func(mt *mtest.T) {
		repo := repository.NewMongoSelectionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.selected_communities", mtest.FirstBatch))

		record, err := repo.Get(context.Background())
		require.NoError(mt, err)
		require.Equal(mt, []string{}, record.Selected)
	})

	mt.Run("selection save upserts", func(mt *mtest.T) {
		repo := repository.NewMongoSelectionRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, repo.Save(context.Background(), []string{"p2", "p1"}))
	})

	mt.Run("faq replace of missing document is nil", func(mt *mtest.T) {
		repo := repository.NewMongoFAQRepo(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		faq, err := repo.Replace(context.Background(), primitive.NewObjectID().Hex(), &models.FAQRequest{Question: "Q"})
		require.NoError(mt, err)
		require.Nil(mt, faq)

		faq, err = repo.Replace(context.Background(), "missing", &models.FAQRequest{Question: "Q"})
		require.NoError(mt, err)
		require.Nil(mt, faq)
	})

	mt.Run("faq create stores an ObjectID", func(mt *mtest.T) {
		repo := repository.NewMongoFAQRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		faq := &models.FAQ{Category: models.DefaultFAQCategory, Question: "Q", Answer: "A"}
		require.NoError(mt, repo.Create(context.Background(), faq))

		oid, err := primitive.ObjectIDFromHex(faq.ID)
		require.NoError(mt, err)

		stored := startedCommand(mt, "insert").Lookup("documents", "0", "_id")
		require.Equal(mt, bson.TypeObjectID, stored.Type)
		require.Equal(mt, oid, stored.ObjectID())
	})

	mt.Run("resource delete filters by ObjectID", func(mt *mtest.T) {
		repo := repository.NewMongoResourceRepo(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		require.NoError(mt, repo.Delete(context.Background(), oid.Hex()))

		filter := startedCommand(mt, "delete").Lookup("deletes", "0", "q", "_id")
		require.Equal(mt, bson.TypeObjectID, filter.Type)
		require.Equal(mt, oid, filter.ObjectID())
	})

	mt.Run("review selection resets then flags", func(mt *mtest.T) {
		repo := repository.NewMongoReviewRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
		)

		ids := []string{primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "r3"}
		require.NoError(mt, repo.SetSelected(context.Background(), ids))

		startedCommand(mt, "update")
		in, err := startedCommand(mt, "update").Lookup("updates", "0", "q", "_id", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, in, 2)
	})

	mt.Run("review upsert error is wrapped", func(mt *mtest.T) {
		repo := repository.NewMongoReviewRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "duplicate key",
			Name:    "DuplicateKey",
		}))

		err := repo.UpsertByGoogleID(context.Background(), &models.GoogleReview{GoogleReviewID: "1700000000"})
		require.Error(mt, err)
		require.Contains(mt, err.Error(), "1700000000")
	})

	mt.Run("resource list decodes ObjectID as hex", func(mt *mtest.T) {
		repo := repository.NewMongoResourceRepo(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cms.resources", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "title", Value: "Guide"}, {Key: "fileSize", Value: int64(10)}},
		))

		resources, err := repo.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, resources, 1)
		require.Equal(mt, "Guide", resources[0].Title)
		require.Equal(mt, oid.Hex(), resources[0].ID)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		require.NoError(mt, repository.EnsureMongoIndexes(context.Background(), mt.DB))
	})
}
