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

// ComplaintRepo encapsulates all queries against the complaints collection.
type ComplaintRepo struct {
	db *mongo.Database
}

func NewComplaintRepo(db *mongo.Database) *ComplaintRepo { return &ComplaintRepo{db: db} }

func (r *ComplaintRepo) coll() *mongo.Collection { return r.db.Collection(database.CollComplaints) }

// Create inserts a complaint with the default Pending status and populates
// its ID.  The caller must have verified that the referenced toilet exists.
func (r *ComplaintRepo) Create(ctx context.Context, c *model.Complaint) error {
	now := time.Now().UTC()
	c.Status = model.ComplaintPending
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := r.coll().InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// GetByID fetches a complaint by id.
func (r *ComplaintRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Complaint, error) {
	var c model.Complaint
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrComplaintNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListAll returns every complaint, newest first.
func (r *ComplaintRepo) ListAll(ctx context.Context) ([]model.Complaint, error) {
	return r.list(ctx, bson.M{})
}

// ListByToilets scopes complaints to a set of owned toilet ids.  An empty id
// set short-circuits to an empty result rather than an error.
func (r *ComplaintRepo) ListByToilets(ctx context.Context, toilets []primitive.ObjectID) ([]model.Complaint, error) {
	if len(toilets) == 0 {
		return []model.Complaint{}, nil
	}
	return r.list(ctx, bson.M{"toilet": bson.M{"$in": toilets}})
}

// ListByUsername returns the complaints filed under a display name.  The
// mobile app uses this so travellers can track their own submissions.
func (r *ComplaintRepo) ListByUsername(ctx context.Context, username string) ([]model.Complaint, error) {
	return r.list(ctx, bson.M{"username": username})
}

// UpdateStatus sets a complaint's status and optional operator response.
// Ownership is resolved by the handler through the parent toilet before this
// is called.
func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.ComplaintStatus, response string) error {
	set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	if response != "" {
		set["response"] = response
	}
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepo) list(ctx context.Context, filter bson.M) ([]model.Complaint, error) {
	cur, err := r.coll().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Complaint{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
