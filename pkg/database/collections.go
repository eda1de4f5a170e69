package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createLocationsIndexes()
	createAnalysisIndexes()
}

func createLocationsIndexes() {
	locationsCollection := GetCollection("locations")
	locationsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "lng", Value: 1}, {Key: "lat", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := locationsCollection.Indexes().CreateMany(context.Background(), locationsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}

func createAnalysisIndexes() {
	noiseCalculationsCollection := GetCollection("noise_calculations")
	noiseCalculationsIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tracksegmentref", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "calculatedat", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := noiseCalculationsCollection.Indexes().CreateMany(context.Background(), noiseCalculationsIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}

	savedAnalysesCollection := GetCollection("saved_analyses")
	savedAnalysesIndex := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "primaryidentifier", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "locationref", Value: 1}},
		},
	}

	opts = options.CreateIndexes()
	_, err = savedAnalysesCollection.Indexes().CreateMany(context.Background(), savedAnalysesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
