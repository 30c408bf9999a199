package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restspot/restspot/internal/model"
	"github.com/restspot/restspot/internal/repository"
)

// ToiletHandler bundles the stores needed for facility endpoints.
type ToiletHandler struct {
	Toilets    ToiletStore
	Reviews    ReviewStore
	Complaints ComplaintStore
	Penalties  PenaltyStore
	Users      UserStore
}

func NewToiletHandler(toilets ToiletStore, reviews ReviewStore, complaints ComplaintStore, penalties PenaltyStore, users UserStore) *ToiletHandler {
	if toilets == nil || reviews == nil || complaints == nil || penalties == nil || users == nil {
		panic("nil store passed to NewToiletHandler")
	}
	return &ToiletHandler{Toilets: toilets, Reviews: reviews, Complaints: complaints, Penalties: penalties, Users: users}
}

type createToiletReq struct {
	Name       string         `json:"name"`
	Highway    string         `json:"highway"`
	Location   model.Location `json:"location"`
	Types      []string       `json:"types"`
	Accessible bool           `json:"accessible"`
	Status     string         `json:"status"`
	Images     []model.Image  `json:"images"`
}

// toiletDetail is a toilet with its aggregated child records.  Which fields
// are populated depends on the endpoint.
type toiletDetail struct {
	model.Toilet
	Owner      *model.Summary    `json:"owner,omitempty"`
	Reviews    []model.Review    `json:"reviews,omitempty"`
	Complaints []model.Complaint `json:"complaints,omitempty"`
	Penalties  []model.Penalty   `json:"penalties,omitempty"`
}

// Create handles POST /v1/toilets.  The caller (operator or admin) becomes
// the immutable owner of the new facility.
func (h *ToiletHandler) Create(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createToiletReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Highway = strings.TrimSpace(req.Highway)
	if req.Name == "" || req.Highway == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and highway are required"})
	}
	if !model.ValidToiletTypes(req.Types) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "types must be a non-empty set of Gents, Ladies, Unisex"})
	}
	if req.Location.Latitude == 0 && req.Location.Longitude == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location coordinates are required"})
	}
	status := model.ToiletStatus(req.Status)
	if req.Status != "" && !model.ValidToiletStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	t := &model.Toilet{
		Name:       req.Name,
		Highway:    req.Highway,
		Location:   req.Location,
		Types:      req.Types,
		Accessible: req.Accessible,
		Status:     status,
		Images:     req.Images,
		CreatedBy:  u.ID,
	}
	if err := h.Toilets.Create(c.Request().Context(), t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create toilet"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListAll handles GET /v1/toilets.  Unauthenticated; every toilet is
// returned with its owner summary and nested reviews, complaints and the
// penalties issued against the owner.  Credential fields are never attached.
func (h *ToiletHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	toilets, err := h.Toilets.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	toiletIDs := make([]primitive.ObjectID, 0, len(toilets))
	ownerSet := map[primitive.ObjectID]struct{}{}
	for i := range toilets {
		toiletIDs = append(toiletIDs, toilets[i].ID)
		ownerSet[toilets[i].CreatedBy] = struct{}{}
	}
	ownerIDs := make([]primitive.ObjectID, 0, len(ownerSet))
	for id := range ownerSet {
		ownerIDs = append(ownerIDs, id)
	}

	owners, err := h.Users.SummariesByIDs(ctx, ownerIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	reviewsByToilet, err := h.reviewsGrouped(c, toiletIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	complaintsByToilet, err := h.complaintsGrouped(c, toiletIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	penaltiesByOwner := make(map[primitive.ObjectID][]model.Penalty, len(ownerIDs))
	for _, owner := range ownerIDs {
		ps, err := h.Penalties.ListByOperator(ctx, owner)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		penaltiesByOwner[owner] = ps
	}

	items := make([]toiletDetail, 0, len(toilets))
	for i := range toilets {
		t := toilets[i]
		item := toiletDetail{
			Toilet:     t,
			Reviews:    orEmptyReviews(reviewsByToilet[t.ID]),
			Complaints: orEmptyComplaints(complaintsByToilet[t.ID]),
			Penalties:  orEmptyPenalties(penaltiesByOwner[t.CreatedBy]),
		}
		if s, ok := owners[t.CreatedBy]; ok {
			item.Owner = &s
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMine handles GET /v1/toilets/my.  Each owned toilet carries its own
// reviews and complaints; the operator's penalties are surfaced alongside
// (they sanction the operator, not a toilet).
func (h *ToiletHandler) ListMine(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	toilets, err := h.Toilets.ListByOwner(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	toiletIDs := make([]primitive.ObjectID, 0, len(toilets))
	for i := range toilets {
		toiletIDs = append(toiletIDs, toilets[i].ID)
	}

	reviewsByToilet, err := h.reviewsGrouped(c, toiletIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	complaintsByToilet, err := h.complaintsGrouped(c, toiletIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	penalties, err := h.Penalties.ListByOperator(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	items := make([]toiletDetail, 0, len(toilets))
	for i := range toilets {
		t := toilets[i]
		items = append(items, toiletDetail{
			Toilet:     t,
			Reviews:    orEmptyReviews(reviewsByToilet[t.ID]),
			Complaints: orEmptyComplaints(complaintsByToilet[t.ID]),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "penalties": orEmptyPenalties(penalties)})
}

// GetByID handles GET /v1/toilets/:id.  Unauthenticated; returns the toilet
// with its reviews.
func (h *ToiletHandler) GetByID(c echo.Context) error {
	id, err := pathObjectID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	t, err := h.Toilets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrToiletNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "toilet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	reviews, err := h.Reviews.ListByToilet(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, toiletDetail{Toilet: *t, Reviews: orEmptyReviews(reviews)})
}

// UpdateStatus handles PATCH /v1/toilets/:id/status.  Only the owning
// operator or an admin may change a facility's status.
func (h *ToiletHandler) UpdateStatus(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathObjectID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.ToiletStatus(body.Status)
	if !model.ValidToiletStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx := c.Request().Context()
	t, err := h.Toilets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrToiletNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "toilet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if t.CreatedBy != u.ID && !isAdmin(u) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Toilets.UpdateStatus(ctx, id, status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	t.Status = status
	return c.JSON(http.StatusOK, t)
}

// reviewsGrouped fetches the reviews for a set of toilets in one query and
// groups them by toilet id.
func (h *ToiletHandler) reviewsGrouped(c echo.Context, toiletIDs []primitive.ObjectID) (map[primitive.ObjectID][]model.Review, error) {
	reviews, err := h.Reviews.ListByToilets(c.Request().Context(), toiletIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]model.Review)
	for i := range reviews {
		out[reviews[i].Toilet] = append(out[reviews[i].Toilet], reviews[i])
	}
	return out, nil
}

func (h *ToiletHandler) complaintsGrouped(c echo.Context, toiletIDs []primitive.ObjectID) (map[primitive.ObjectID][]model.Complaint, error) {
	complaints, err := h.Complaints.ListByToilets(c.Request().Context(), toiletIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID][]model.Complaint)
	for i := range complaints {
		out[complaints[i].Toilet] = append(out[complaints[i].Toilet], complaints[i])
	}
	return out, nil
}

func orEmptyReviews(in []model.Review) []model.Review {
	if in == nil {
		return []model.Review{}
	}
	return in
}

func orEmptyComplaints(in []model.Complaint) []model.Complaint {
	if in == nil {
		return []model.Complaint{}
	}
	return in
}

func orEmptyPenalties(in []model.Penalty) []model.Penalty {
	if in == nil {
		return []model.Penalty{}
	}
	return in
}
