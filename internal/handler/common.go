package handler // handler defines http handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restspot/restspot/internal/model"
)

// The handlers depend on narrow store interfaces rather than the concrete
// mongo repositories so the authorization and validation logic can be tested
// against in-memory fakes.  The repository types satisfy these interfaces.

// UserStore is the identity store surface used by the auth handlers.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, role model.Role, cost int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	ListOperators(ctx context.Context) ([]model.User, error)
	SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Summary, error)
}

// ToiletStore is the facility store surface.
type ToiletStore interface {
	Create(ctx context.Context, t *model.Toilet) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Toilet, error)
	ListAll(ctx context.Context) ([]model.Toilet, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]model.Toilet, error)
	IDsByOwner(ctx context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.ToiletStatus) error
}

// ReviewStore is the review store surface.
type ReviewStore interface {
	Create(ctx context.Context, rev *model.Review) error
	ListAll(ctx context.Context) ([]model.Review, error)
	ListByToilet(ctx context.Context, toilet primitive.ObjectID) ([]model.Review, error)
	ListByToilets(ctx context.Context, toilets []primitive.ObjectID) ([]model.Review, error)
}

// ComplaintStore is the complaint store surface.
type ComplaintStore interface {
	Create(ctx context.Context, c *model.Complaint) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Complaint, error)
	ListAll(ctx context.Context) ([]model.Complaint, error)
	ListByToilets(ctx context.Context, toilets []primitive.ObjectID) ([]model.Complaint, error)
	ListByUsername(ctx context.Context, username string) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.ComplaintStatus, response string) error
}

// PenaltyStore is the penalty store surface.
type PenaltyStore interface {
	Create(ctx context.Context, p *model.Penalty) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Penalty, error)
	ListAll(ctx context.Context) ([]model.Penalty, error)
	ListByOperator(ctx context.Context, operator primitive.ObjectID) ([]model.Penalty, error)
	MarkPaid(ctx context.Context, id primitive.ObjectID) (*model.Penalty, error)
}

// currentUser returns the authenticated account stored in context by the
// session middleware.
func currentUser(c echo.Context) (*model.User, error) {
	if u, ok := c.Get("user").(*model.User); ok && u != nil {
		return u, nil
	}
	return nil, errors.New("no authenticated user in context")
}

// isAdmin reports whether the caller holds the admin role.
func isAdmin(u *model.User) bool { return u.Role == model.RoleAdmin }

// pathObjectID parses the named path parameter as a Mongo object id.
func pathObjectID(c echo.Context, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param(name))
}
