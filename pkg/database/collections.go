package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createDraftsIndexes()
}

func createDraftsIndexes() {
	draftsCollection := GetCollection("drafts")
	draftsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "identifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "modificationdatetime", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := draftsCollection.Indexes().CreateMany(context.Background(), draftsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
