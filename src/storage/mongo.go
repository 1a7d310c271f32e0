package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tributemc/tribute-gateway/src/structures"
)

const collectionNameWebhooks = "webhooks"

type mongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
}

func newMongo(ctx context.Context, uri string, database string) (Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(database)

	_, err = db.Collection(collectionNameWebhooks).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"webhook_type": 1}},
		{Keys: bson.M{"created_at": 1}},
	})
	if err != nil {
		return nil, err
	}

	return &mongoStorage{client: client, db: db}, nil
}

func (s *mongoStorage) RecordWebhook(ctx context.Context, record structures.WebhookRecord) error {
	_, err := s.db.Collection(collectionNameWebhooks).InsertOne(ctx, record)
	return err
}

func (s *mongoStorage) ListWebhooks(ctx context.Context, limit int64) ([]structures.WebhookRecord, error) {
	cur, err := s.db.Collection(collectionNameWebhooks).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}

	records := []structures.WebhookRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *mongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
