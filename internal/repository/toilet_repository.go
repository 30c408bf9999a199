// This file defines repository methods for the toilets collection.  A toilet
// is the root of the ownership chain: reviews and complaints reference a
// toilet, and the toilet's createdBy field decides which operator may act on
// them.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restspot/restspot/internal/database"
	"github.com/restspot/restspot/internal/model"
)

// ToiletRepo encapsulates all queries against the toilets collection.
type ToiletRepo struct {
	db *mongo.Database
}

func NewToiletRepo(db *mongo.Database) *ToiletRepo { return &ToiletRepo{db: db} }

func (r *ToiletRepo) coll() *mongo.Collection { return r.db.Collection(database.CollToilets) }

// Create inserts a toilet and populates its ID.  Field validation happens at
// the handler; the repository only stamps timestamps and the default status.
func (r *ToiletRepo) Create(ctx context.Context, t *model.Toilet) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.Images == nil {
		t.Images = []model.Image{}
	}
	res, err := r.coll().InsertOne(ctx, t)
	if err != nil {
		return err
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches a toilet regardless of owner.
func (r *ToiletRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Toilet, error) {
	var t model.Toilet
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrToiletNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every toilet ordered by creation time.
func (r *ToiletRepo) ListAll(ctx context.Context) ([]model.Toilet, error) {
	return r.list(ctx, bson.M{})
}

// ListByOwner returns the toilets created by one operator.
func (r *ToiletRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]model.Toilet, error) {
	return r.list(ctx, bson.M{"createdBy": owner})
}

// IDsByOwner resolves the set of toilet ids owned by an operator.  This is
// the first hop of the two-hop ownership chain used to scope reviews and
// complaints; an operator with no toilets gets an empty slice, not an error.
func (r *ToiletRepo) IDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := r.coll().Find(ctx,
		bson.M{"createdBy": owner},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// UpdateStatus sets a toilet's status.  Ownership is checked by the handler
// against the loaded document before calling this.
func (r *ToiletRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.ToiletStatus) error {
	res, err := r.coll().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrToiletNotFound
	}
	return nil
}

func (r *ToiletRepo) list(ctx context.Context, filter bson.M) ([]model.Toilet, error) {
	cur, err := r.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Toilet{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
