package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/restspot/restspot/internal/config"
	"github.com/restspot/restspot/internal/model"
	"github.com/restspot/restspot/internal/repository"
	"github.com/restspot/restspot/internal/utils"
)

// In-memory fakes mirroring the repository semantics (sentinel errors,
// defaulted fields) so the handlers can be exercised without Mongo.

type fakeUserStore struct {
	users []*model.User
}

func (f *fakeUserStore) add(t *testing.T, name, email, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.users = append(f.users, u)
	return u
}

func (f *fakeUserStore) Create(_ context.Context, name, email, password string, role model.Role, cost int) (*model.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) ListOperators(_ context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		if u.Role == model.RoleOperator {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) SummariesByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Summary, error) {
	out := map[primitive.ObjectID]model.Summary{}
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				out[id] = u.Summary()
			}
		}
	}
	return out, nil
}

type fakeToiletStore struct {
	toilets []*model.Toilet
}

func (f *fakeToiletStore) Create(_ context.Context, t *model.Toilet) error {
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.Images == nil {
		t.Images = []model.Image{}
	}
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	f.toilets = append(f.toilets, t)
	return nil
}

func (f *fakeToiletStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Toilet, error) {
	for _, t := range f.toilets {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrToiletNotFound
}

func (f *fakeToiletStore) ListAll(_ context.Context) ([]model.Toilet, error) {
	out := []model.Toilet{}
	for _, t := range f.toilets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeToiletStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]model.Toilet, error) {
	out := []model.Toilet{}
	for _, t := range f.toilets {
		if t.CreatedBy == owner {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeToiletStore) IDsByOwner(_ context.Context, owner primitive.ObjectID) ([]primitive.ObjectID, error) {
	out := []primitive.ObjectID{}
	for _, t := range f.toilets {
		if t.CreatedBy == owner {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func (f *fakeToiletStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status model.ToiletStatus) error {
	for _, t := range f.toilets {
		if t.ID == id {
			t.Status = status
			t.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrToiletNotFound
}

type fakeReviewStore struct {
	reviews []*model.Review
}

func (f *fakeReviewStore) Create(_ context.Context, rev *model.Review) error {
	rev.ID = primitive.NewObjectID()
	rev.CreatedAt = time.Now().UTC()
	f.reviews = append(f.reviews, rev)
	return nil
}

func (f *fakeReviewStore) ListAll(_ context.Context) ([]model.Review, error) {
	out := []model.Review{}
	for _, r := range f.reviews {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReviewStore) ListByToilet(_ context.Context, toilet primitive.ObjectID) ([]model.Review, error) {
	return f.ListByToilets(context.Background(), []primitive.ObjectID{toilet})
}

func (f *fakeReviewStore) ListByToilets(_ context.Context, toilets []primitive.ObjectID) ([]model.Review, error) {
	out := []model.Review{}
	for _, r := range f.reviews {
		for _, id := range toilets {
			if r.Toilet == id {
				out = append(out, *r)
			}
		}
	}
	return out, nil
}

type fakeComplaintStore struct {
	complaints []*model.Complaint
}

func (f *fakeComplaintStore) Create(_ context.Context, c *model.Complaint) error {
	c.ID = primitive.NewObjectID()
	c.Status = model.ComplaintPending
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	f.complaints = append(f.complaints, c)
	return nil
}

func (f *fakeComplaintStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Complaint, error) {
	for _, c := range f.complaints {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrComplaintNotFound
}

func (f *fakeComplaintStore) ListAll(_ context.Context) ([]model.Complaint, error) {
	out := []model.Complaint{}
	for _, c := range f.complaints {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeComplaintStore) ListByToilets(_ context.Context, toilets []primitive.ObjectID) ([]model.Complaint, error) {
	out := []model.Complaint{}
	for _, c := range f.complaints {
		for _, id := range toilets {
			if c.Toilet == id {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

func (f *fakeComplaintStore) ListByUsername(_ context.Context, username string) ([]model.Complaint, error) {
	out := []model.Complaint{}
	for _, c := range f.complaints {
		if c.Username == username {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaintStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status model.ComplaintStatus, response string) error {
	for _, c := range f.complaints {
		if c.ID == id {
			c.Status = status
			if response != "" {
				c.Response = response
			}
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrComplaintNotFound
}

type fakePenaltyStore struct {
	penalties []*model.Penalty
}

func (f *fakePenaltyStore) Create(_ context.Context, p *model.Penalty) error {
	p.ID = primitive.NewObjectID()
	p.Status = model.PenaltyUnpaid
	p.IssuedAt = time.Now().UTC()
	p.PaidAt = nil
	f.penalties = append(f.penalties, p)
	return nil
}

func (f *fakePenaltyStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Penalty, error) {
	for _, p := range f.penalties {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPenaltyNotFound
}

func (f *fakePenaltyStore) ListAll(_ context.Context) ([]model.Penalty, error) {
	out := []model.Penalty{}
	for _, p := range f.penalties {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePenaltyStore) ListByOperator(_ context.Context, operator primitive.ObjectID) ([]model.Penalty, error) {
	out := []model.Penalty{}
	for _, p := range f.penalties {
		if p.Operator == operator {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePenaltyStore) MarkPaid(_ context.Context, id primitive.ObjectID) (*model.Penalty, error) {
	for _, p := range f.penalties {
		if p.ID == id {
			if p.Status == model.PenaltyPaid {
				return nil, errors.New("penalty already paid")
			}
			now := time.Now().UTC()
			p.Status = model.PenaltyPaid
			p.PaidAt = &now
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrPenaltyNotFound
}

// fakeMailer records deliveries; with fail set every send errors, driving
// the degraded provisioning path.
type fakeMailer struct {
	fail bool
	sent []string
}

func (f *fakeMailer) SendOperatorCredentials(_ context.Context, email, _, _ string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.sent = append(f.sent, email)
	return nil
}

// ----- request plumbing -----

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "test-secret",
		SessionTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
}

// newJSONContext builds an Echo context carrying a JSON body.  The returned
// recorder captures the handler's response.
func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser injects the caller identity the way SessionAuth does.
func asUser(c echo.Context, u *model.User) {
	c.Set("user", u)
	c.Set("user_id", u.ID.Hex())
	c.Set("role", string(u.Role))
}
