package cianparser

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabase   = "moscow"
	defaultCollection = "cian_1_room"
	exportPageSize    = 10000
)

// Sink stores extracted listings. Save appends; it never updates or deduplicates.
type Sink interface {
	Save(ctx context.Context, listing *Listing) error
}

// MongoSink appends listings to one MongoDB collection.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to uri and checks the connection with a ping.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// newMongoSinkFromConfig reads DATA_BASE and DB_NAME.
func newMongoSinkFromConfig(ctx context.Context, config *configService, collection string) (*MongoSink, error) {
	uri := config.EnvString("DATA_BASE")
	if uri == "" {
		return nil, fmt.Errorf("DATA_BASE is not set")
	}
	return NewMongoSink(ctx, uri, config.EnvString("DB_NAME", defaultDatabase), collection)
}

func (s *MongoSink) Save(ctx context.Context, listing *Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("insert into %s: %w", s.collection.Name(), err)
	}
	return nil
}

// Listings returns one page of stored listings in insertion order. Pages start at 1.
func (s *MongoSink) Listings(ctx context.Context, page int) ([]Listing, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * exportPageSize)).
		SetLimit(exportPageSize)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	var results []Listing
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.collection.Name(), err)
	}
	return results, nil
}

func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
