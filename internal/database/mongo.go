package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.  One collection per entity; cross-references by id.
const (
	CollUsers      = "users"
	CollToilets    = "toilets"
	CollReviews    = "reviews"
	CollComplaints = "complaints"
	CollPenalties  = "penalties"
)

// Open connects to MongoDB and verifies the connection with a short ping.
func Open(ctx context.Context, uri, name string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client.Database(name), nil
}

// EnsureIndexes creates the indexes the repositories rely on.  Index creation
// is idempotent, so this runs unconditionally at every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// users.email carries the uniqueness guarantee for registration; emails
	// are stored lowercased so the unique index is effectively case-insensitive.
	_, err := db.Collection(CollUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	lookups := []struct {
		coll string
		key  string
	}{
		{CollToilets, "createdBy"},
		{CollReviews, "toilet"},
		{CollComplaints, "toilet"},
		{CollComplaints, "username"},
		{CollPenalties, "operator"},
	}
	for _, ix := range lookups {
		_, err := db.Collection(ix.coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: ix.key, Value: 1}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}
