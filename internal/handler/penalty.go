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

// PenaltyHandler bundles the stores needed for penalty endpoints.
type PenaltyHandler struct {
	Penalties PenaltyStore
	Users     UserStore
	Publish   func(ctx context.Context, ev queue.PenaltyIssuedEvent) error
}

func NewPenaltyHandler(penalties PenaltyStore, users UserStore) *PenaltyHandler {
	if penalties == nil || users == nil {
		panic("nil store passed to NewPenaltyHandler")
	}
	return &PenaltyHandler{
		Penalties: penalties,
		Users:     users,
		Publish:   queue_publisher.PublishPenaltyIssued,
	}
}

type issuePenaltyReq struct {
	Operator string  `json:"operator"`
	Reason   string  `json:"reason"`
	Amount   float64 `json:"amount"`
}

// penaltyDetail attaches the sanctioned operator and issuing admin
// summaries for the admin listing.
type penaltyDetail struct {
	model.Penalty
	OperatorInfo *model.Summary `json:"operatorInfo,omitempty"`
	IssuerInfo   *model.Summary `json:"issuerInfo,omitempty"`
}

// Issue handles POST /v1/penalties.  Admin only; the sanctioned account
// must exist and hold the operator role.
func (h *PenaltyHandler) Issue(c echo.Context) error {
	admin, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req issuePenaltyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	operatorID, err := primitive.ObjectIDFromHex(req.Operator)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operator id"})
	}

	ctx := c.Request().Context()
	op, err := h.Users.FindByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "operator not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if op.Role != model.RoleOperator {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "penalties can only be issued against operators"})
	}

	p := &model.Penalty{
		Operator: operatorID,
		IssuedBy: admin.ID,
		Reason:   req.Reason,
		Amount:   req.Amount,
	}
	if err := h.Penalties.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create penalty"})
	}

	_ = h.Publish(ctx, queue.PenaltyIssuedEvent{
		PenaltyID:     p.ID.Hex(),
		OperatorID:    op.ID.Hex(),
		OperatorEmail: op.Email,
		IssuedByID:    admin.ID.Hex(),
		Reason:        p.Reason,
		Amount:        p.Amount,
		IssuedAt:      p.IssuedAt.Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, p)
}

// Pay handles PUT /v1/penalties/:id/pay.  Only the sanctioned operator may
// pay, and only once: paying a Paid penalty is a no-op that leaves paidAt
// untouched.
func (h *PenaltyHandler) Pay(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathObjectID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx := c.Request().Context()
	p, err := h.Penalties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPenaltyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "penalty not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if p.Operator != u.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if p.Status == model.PenaltyPaid {
		return c.JSON(http.StatusOK, p)
	}

	paid, err := h.Penalties.MarkPaid(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	return c.JSON(http.StatusOK, paid)
}

// ListMine handles GET /v1/penalties/my.
func (h *PenaltyHandler) ListMine(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	penalties, err := h.Penalties.ListByOperator(c.Request().Context(), u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": penalties})
}

// ListAll handles GET /v1/penalties (admin) with operator and issuer
// identity summaries attached.
func (h *PenaltyHandler) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	penalties, err := h.Penalties.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	idSet := map[primitive.ObjectID]struct{}{}
	for i := range penalties {
		idSet[penalties[i].Operator] = struct{}{}
		idSet[penalties[i].IssuedBy] = struct{}{}
	}
	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	summaries, err := h.Users.SummariesByIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	items := make([]penaltyDetail, 0, len(penalties))
	for i := range penalties {
		item := penaltyDetail{Penalty: penalties[i]}
		if s, ok := summaries[penalties[i].Operator]; ok {
			item.OperatorInfo = &s
		}
		if s, ok := summaries[penalties[i].IssuedBy]; ok {
			item.IssuerInfo = &s
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByOperator handles GET /v1/penalties/operator/:operatorId (admin).
func (h *PenaltyHandler) ListByOperator(c echo.Context) error {
	operatorID, err := pathObjectID(c, "operatorId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operator id"})
	}
	penalties, err := h.Penalties.ListByOperator(c.Request().Context(), operatorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": penalties})
}
