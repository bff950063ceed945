package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type CollectionName string

const (
	CollectionNameTrips CollectionName = "trips"
	CollectionNameUsers CollectionName = "users"
)

type Instance interface {
	Collection(name CollectionName) *mongo.Collection
	Ping(ctx context.Context) error
	RawClient() *mongo.Client
	RawDatabase() *mongo.Database
}

type SetupOptions struct {
	URI    string
	DB     string
	Direct bool
}

type mongoInst struct {
	client *mongo.Client
	db     *mongo.Database
}

func Setup(ctx context.Context, opt SetupOptions) (Instance, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opt.URI).SetDirect(opt.Direct))
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	database := client.Database(opt.DB)

	zap.S().Infow("mongo, ok",
		"db", opt.DB,
	)

	return &mongoInst{
		client: client,
		db:     database,
	}, nil
}

func (i *mongoInst) Collection(name CollectionName) *mongo.Collection {
	return i.db.Collection(string(name))
}

func (i *mongoInst) Ping(ctx context.Context) error {
	return i.client.Ping(ctx, readpref.Primary())
}

func (i *mongoInst) RawClient() *mongo.Client {
	return i.client
}

func (i *mongoInst) RawDatabase() *mongo.Database {
	return i.db
}

// Re-exported driver helpers so callers don't need a second import of the
// driver package alongside this one.
var (
	ErrNoDocuments = mongo.ErrNoDocuments
)
