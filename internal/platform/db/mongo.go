package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	// DefaultDatabase is used when neither MONGO_DB nor the connection
	// string names a database.
	DefaultDatabase = "vitals_db"

	// CollectionName holds every vitals record.
	CollectionName = "vitals"

	pingTimeout = 5 * time.Second
)

// Connect opens a Mongo client, probes connectivity, and selects the
// working database. Startup must abort on any error returned here.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(ResolveDatabase(uri, dbName)), nil
}

// ResolveDatabase picks the working database name: an explicit override
// wins, then the database component of the connection string, then
// DefaultDatabase.
func ResolveDatabase(uri, override string) string {
	if override != "" {
		return override
	}
	if cs, err := connstring.ParseAndValidate(uri); err == nil && cs.Database != "" {
		return cs.Database
	}
	return DefaultDatabase
}

// IndexModels returns the lookup indexes maintained on the vitals
// collection: patient_id and timestamp, both ascending.
func IndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "patient_id", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}}},
	}
}

// EnsureIndexes creates the lookup indexes. CreateMany is idempotent, so
// this is safe to repeat on every startup.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(CollectionName).Indexes().CreateMany(ctx, IndexModels())
	if err != nil {
		return fmt.Errorf("create indexes on %s: %w", CollectionName, err)
	}
	return nil
}

// Disconnect releases the client. Safe to call with a nil client.
func Disconnect(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
