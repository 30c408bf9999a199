package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restspot/restspot/internal/model"
	"github.com/restspot/restspot/internal/queue"
	"github.com/restspot/restspot/internal/repository"
	queue_publisher "github.com/restspot/restspot/internal/service"
)

// ComplaintHandler bundles the stores needed for complaint endpoints.
// Publish is swappable so tests can capture events instead of dialing a
// broker.
type ComplaintHandler struct {
	Complaints ComplaintStore
	Toilets    ToiletStore
	Publish    func(ctx context.Context, ev queue.ComplaintUpdatedEvent) error
}

func NewComplaintHandler(complaints ComplaintStore, toilets ToiletStore) *ComplaintHandler {
	if complaints == nil || toilets == nil {
		panic("nil store passed to NewComplaintHandler")
	}
	return &ComplaintHandler{
		Complaints: complaints,
		Toilets:    toilets,
		Publish:    queue_publisher.PublishComplaintUpdated,
	}
}

type createComplaintReq struct {
	Toilet      string `json:"toilet"`
	Username    string `json:"username"`
	Mobile      string `json:"mobile"`
	Description string `json:"description"`
}

// Create handles POST /v1/complaints.  Deliberately unauthenticated; the
// mobile number must match the 10-digit Indian pattern and the referenced
// toilet must exist before anything is persisted.
func (h *ComplaintHandler) Create(c echo.Context) error {
	var req createComplaintReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Description = strings.TrimSpace(req.Description)
	if req.Username == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and description are required"})
	}
	if !model.ValidMobile(req.Mobile) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid mobile number"})
	}
	toiletID, err := primitive.ObjectIDFromHex(req.Toilet)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid toilet id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Toilets.GetByID(ctx, toiletID); err != nil {
		if errors.Is(err, repository.ErrToiletNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "toilet not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	comp := &model.Complaint{
		Toilet:      toiletID,
		Username:    req.Username,
		Mobile:      req.Mobile,
		Description: req.Description,
	}
	if err := h.Complaints.Create(ctx, comp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create complaint"})
	}
	return c.JSON(http.StatusCreated, comp)
}

// ListAll handles GET /v1/complaints (admin dashboard).
func (h *ComplaintHandler) ListAll(c echo.Context) error {
	complaints, err := h.Complaints.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": complaints})
}

// ListMine handles GET /v1/complaints/my via the two-hop ownership filter.
// An operator with no toilets gets an empty list.
func (h *ComplaintHandler) ListMine(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	ownedIDs, err := h.Toilets.IDsByOwner(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	complaints, err := h.Complaints.ListByToilets(ctx, ownedIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": complaints})
}

// GetByID handles GET /v1/complaints/:id.  The complaint's parent toilet
// resolves the effective owner; a non-owning operator is rejected.
func (h *ComplaintHandler) GetByID(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathObjectID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	comp, status, errMsg := h.loadOwned(c, id, u)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}
	return c.JSON(http.StatusOK, comp)
}

// UpdateStatus handles PATCH /v1/complaints/:id/status.  Status transitions
// are unconstrained within the enum; only the owning operator or an admin
// may write.  An optional response note travels with the status.
func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathObjectID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Status   string `json:"status"`
		Response string `json:"response"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	newStatus := model.ComplaintStatus(body.Status)
	if !model.ValidComplaintStatus(newStatus) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	comp, status, errMsg := h.loadOwned(c, id, u)
	if errMsg != "" {
		return c.JSON(status, echo.Map{"error": errMsg})
	}

	ctx := c.Request().Context()
	if err := h.Complaints.UpdateStatus(ctx, id, newStatus, body.Response); err != nil {
		if errors.Is(err, repository.ErrComplaintNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complaint not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	// Best-effort audit event; a broker outage must not fail the update.
	_ = h.Publish(ctx, queue.ComplaintUpdatedEvent{
		ComplaintID: comp.ID.Hex(),
		ToiletID:    comp.Toilet.Hex(),
		OldStatus:   string(comp.Status),
		NewStatus:   string(newStatus),
		Response:    body.Response,
		UpdatedBy:   u.ID.Hex(),
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	comp.Status = newStatus
	if body.Response != "" {
		comp.Response = body.Response
	}
	return c.JSON(http.StatusOK, comp)
}

// ListByUsername handles GET /v1/complaints/user/:username.  Public: the
// mobile app uses it so travellers can track submissions filed under their
// display name.
func (h *ComplaintHandler) ListByUsername(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}
	complaints, err := h.Complaints.ListByUsername(c.Request().Context(), username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": complaints})
}

// ListByOperator handles GET /v1/complaints/operator/:operatorId (admin):
// all complaints across one operator's toilets.
func (h *ComplaintHandler) ListByOperator(c echo.Context) error {
	operatorID, err := pathObjectID(c, "operatorId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operator id"})
	}
	ctx := c.Request().Context()
	ownedIDs, err := h.Toilets.IDsByOwner(ctx, operatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	complaints, err := h.Complaints.ListByToilets(ctx, ownedIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": complaints})
}

// loadOwned loads a complaint and enforces the two-hop ownership rule.  On
// failure it returns a status code and message for the caller to send.
func (h *ComplaintHandler) loadOwned(c echo.Context, id primitive.ObjectID, u *model.User) (*model.Complaint, int, string) {
	ctx := c.Request().Context()
	comp, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrComplaintNotFound) {
			return nil, http.StatusNotFound, "complaint not found"
		}
		return nil, http.StatusInternalServerError, "db error"
	}
	toilet, err := h.Toilets.GetByID(ctx, comp.Toilet)
	if err != nil {
		// A complaint always references an existing toilet at creation; a
		// missing parent here is a data integrity fault.
		return nil, http.StatusInternalServerError, "db error"
	}
	if toilet.CreatedBy != u.ID && !isAdmin(u) {
		return nil, http.StatusForbidden, "forbidden"
	}
	return comp, 0, ""
}
