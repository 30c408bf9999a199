package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restspot/restspot/internal/database"
	"github.com/restspot/restspot/internal/model"
	"github.com/restspot/restspot/internal/utils"
)

// UserRepo encapsulates all queries against the users collection.
type UserRepo struct {
	db *mongo.Database
}

func NewUserRepo(db *mongo.Database) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) coll() *mongo.Collection { return r.db.Collection(database.CollUsers) }

// Create inserts a user with a freshly hashed password and populates the ID
// field.  The email is lowercased so the unique index catches duplicates
// regardless of the submitted casing.
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (*model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.coll().InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.coll().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var u model.User
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListOperators returns every operator account ordered by creation time.
func (r *UserRepo) ListOperators(ctx context.Context) ([]model.User, error) {
	cur, err := r.coll().Find(ctx,
		bson.M{"role": model.RoleOperator},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []model.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SummariesByIDs resolves a set of user ids into identity summaries keyed by
// id.  Used to attach owner/issuer details to aggregated responses without
// ever shipping credential fields.
func (r *UserRepo) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Summary, error) {
	out := make(map[primitive.ObjectID]model.Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.coll().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

// SeedUser describes one bootstrap account ensured at startup.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// SeedStore is the slice of the identity store the seeding routine needs.
// *UserRepo satisfies it; tests drive the routine with fakes.
type SeedStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, name, email, password string, role model.Role, cost int) (*model.User, error)
}

// EnsureSeed guarantees that each bootstrap account exists, creating it only
// when no user with that email is registered.  The check-then-create keyed on
// the email unique index makes repeated runs idempotent: a concurrent or
// repeated seeding that loses the race sees ErrEmailExists and treats it as
// success.
func EnsureSeed(ctx context.Context, store SeedStore, seeds []SeedUser, cost int) error {
	for _, s := range seeds {
		_, err := store.FindByEmail(ctx, s.Email)
		if err == nil {
			continue // already present
		}
		if !errors.Is(err, ErrUserNotFound) {
			return err
		}
		if _, err := store.Create(ctx, s.Name, s.Email, s.Password, s.Role, cost); err != nil && !errors.Is(err, ErrEmailExists) {
			return err
		}
	}
	return nil
}
