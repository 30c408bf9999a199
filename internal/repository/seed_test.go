package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/restspot/restspot/internal/model"
)

// fakeSeedStore mimics the identity collection with its unique email index.
type fakeSeedStore struct {
	users   []*model.User
	creates int
}

func (f *fakeSeedStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeSeedStore) Create(_ context.Context, name, email, _ string, role model.Role, _ int) (*model.User, error) {
	f.creates++
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return nil, ErrEmailExists
		}
	}
	u := &model.User{ID: primitive.NewObjectID(), Name: name, Email: email, Role: role}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeSeedStore) countRole(role model.Role) int {
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n
}

func bootstrapSeeds() []SeedUser {
	return []SeedUser{
		{Name: "Administrator", Email: "admin@example.com", Password: "admin-pw", Role: model.RoleAdmin},
		{Name: "Default Operator", Email: "op@example.com", Password: "op-pw", Role: model.RoleOperator},
	}
}

// Running the boot-time seeding twice leaves exactly one admin and one
// operator; the second run creates nothing.
func TestEnsureSeed_Idempotent(t *testing.T) {
	store := &fakeSeedStore{}
	ctx := context.Background()

	assert.NoError(t, EnsureSeed(ctx, store, bootstrapSeeds(), bcrypt.MinCost))
	assert.NoError(t, EnsureSeed(ctx, store, bootstrapSeeds(), bcrypt.MinCost))

	assert.Equal(t, 1, store.countRole(model.RoleAdmin))
	assert.Equal(t, 1, store.countRole(model.RoleOperator))
	assert.Len(t, store.users, 2)
	assert.Equal(t, 2, store.creates, "second run must not create accounts")
}

// raceSeedStore reports not-found on lookup but duplicate on create, the
// window where a concurrent boot won the insert between the two calls.
type raceSeedStore struct{}

func (raceSeedStore) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, ErrUserNotFound
}

func (raceSeedStore) Create(context.Context, string, string, string, model.Role, int) (*model.User, error) {
	return nil, ErrEmailExists
}

func TestEnsureSeed_LostRaceIsSuccess(t *testing.T) {
	err := EnsureSeed(context.Background(), raceSeedStore{}, bootstrapSeeds(), bcrypt.MinCost)
	assert.NoError(t, err)
}

// failSeedStore surfaces a store fault distinct from the tolerated sentinels.
type failSeedStore struct{}

func (failSeedStore) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func (failSeedStore) Create(context.Context, string, string, string, model.Role, int) (*model.User, error) {
	return nil, errors.New("connection reset")
}

func TestEnsureSeed_PropagatesStoreFaults(t *testing.T) {
	err := EnsureSeed(context.Background(), failSeedStore{}, bootstrapSeeds(), bcrypt.MinCost)
	assert.Error(t, err)
}
