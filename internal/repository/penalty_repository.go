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

// PenaltyRepo encapsulates all queries against the penalties collection.
type PenaltyRepo struct {
	db *mongo.Database
}

func NewPenaltyRepo(db *mongo.Database) *PenaltyRepo { return &PenaltyRepo{db: db} }

func (r *PenaltyRepo) coll() *mongo.Collection { return r.db.Collection(database.CollPenalties) }

// Create inserts an Unpaid penalty and populates its ID.
func (r *PenaltyRepo) Create(ctx context.Context, p *model.Penalty) error {
	p.Status = model.PenaltyUnpaid
	p.IssuedAt = time.Now().UTC()
	p.PaidAt = nil
	res, err := r.coll().InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches a penalty by id.
func (r *PenaltyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Penalty, error) {
	var p model.Penalty
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPenaltyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAll returns every penalty, newest first.
func (r *PenaltyRepo) ListAll(ctx context.Context) ([]model.Penalty, error) {
	return r.list(ctx, bson.M{})
}

// ListByOperator returns the penalties issued against one operator.
func (r *PenaltyRepo) ListByOperator(ctx context.Context, operator primitive.ObjectID) ([]model.Penalty, error) {
	return r.list(ctx, bson.M{"operator": operator})
}

// MarkPaid flips an Unpaid penalty to Paid and stamps paidAt.  The filter
// includes the Unpaid status so paidAt is written at most once: paying an
// already-Paid penalty matches zero documents and the stored timestamp is
// left untouched.  The returned penalty reflects the document after the
// call; ErrPenaltyNotFound means no penalty with that id exists at all.
func (r *PenaltyRepo) MarkPaid(ctx context.Context, id primitive.ObjectID) (*model.Penalty, error) {
	now := time.Now().UTC()
	var p model.Penalty
	err := r.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": model.PenaltyUnpaid},
		bson.M{"$set": bson.M{"status": model.PenaltyPaid, "paidAt": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either absent or already paid; re-read to tell the two apart.
		return r.GetByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PenaltyRepo) list(ctx context.Context, filter bson.M) ([]model.Penalty, error) {
	cur, err := r.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "issuedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Penalty{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
