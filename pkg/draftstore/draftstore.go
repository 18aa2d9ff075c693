package draftstore

import (
	"context"
	"errors"

	"github.com/transitdraft/transitdraft/pkg/database"
	"github.com/transitdraft/transitdraft/pkg/draft"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDraftNotFound = errors.New("draft not found")

// Drafts are loaded whole into an editing session, mutated in memory and
// written back whole. One session owns one draft; there is no concurrent
// multi-user editing.

func Get(ctx context.Context, identifier string) (*draft.Draft, error) {
	draftsCollection := database.GetCollection("drafts")

	var d *draft.Draft
	err := draftsCollection.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func Save(ctx context.Context, d *draft.Draft) error {
	draftsCollection := database.GetCollection("drafts")

	filter := bson.M{"identifier": d.Identifier}
	update := bson.M{"$set": d}
	opts := options.Update().SetUpsert(true)

	_, err := draftsCollection.UpdateOne(ctx, filter, update, opts)

	return err
}

func Delete(ctx context.Context, identifier string) error {
	draftsCollection := database.GetCollection("drafts")

	result, err := draftsCollection.DeleteOne(ctx, bson.M{"identifier": identifier})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrDraftNotFound
	}

	return nil
}
