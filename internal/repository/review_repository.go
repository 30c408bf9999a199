package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restspot/restspot/internal/database"
	"github.com/restspot/restspot/internal/model"
)

// ReviewRepo encapsulates all queries against the reviews collection.
// Reviews are write-once: there are no update or delete methods.
type ReviewRepo struct {
	db *mongo.Database
}

func NewReviewRepo(db *mongo.Database) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) coll() *mongo.Collection { return r.db.Collection(database.CollReviews) }

// Create inserts a review and populates its ID.  The caller must have
// verified that the referenced toilet exists.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	rev.CreatedAt = time.Now().UTC()
	res, err := r.coll().InsertOne(ctx, rev)
	if err != nil {
		return err
	}
	rev.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListAll returns every review, newest first.
func (r *ReviewRepo) ListAll(ctx context.Context) ([]model.Review, error) {
	return r.list(ctx, bson.M{})
}

// ListByToilet returns the reviews for a single toilet, newest first.
func (r *ReviewRepo) ListByToilet(ctx context.Context, toilet primitive.ObjectID) ([]model.Review, error) {
	return r.list(ctx, bson.M{"toilet": toilet})
}

// ListByToilets is the second hop of the ownership chain: given the set of
// toilet ids owned by an operator, it returns exactly the reviews on those
// toilets.  An empty id set short-circuits to an empty result.
func (r *ReviewRepo) ListByToilets(ctx context.Context, toilets []primitive.ObjectID) ([]model.Review, error) {
	if len(toilets) == 0 {
		return []model.Review{}, nil
	}
	return r.list(ctx, bson.M{"toilet": bson.M{"$in": toilets}})
}

func (r *ReviewRepo) list(ctx context.Context, filter bson.M) ([]model.Review, error) {
	cur, err := r.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
