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

// ReviewHandler bundles the stores needed for review endpoints.
type ReviewHandler struct {
	Reviews ReviewStore
	Toilets ToiletStore
}

func NewReviewHandler(reviews ReviewStore, toilets ToiletStore) *ReviewHandler {
	if reviews == nil || toilets == nil {
		panic("nil store passed to NewReviewHandler")
	}
	return &ReviewHandler{Reviews: reviews, Toilets: toilets}
}

type createReviewReq struct {
	Toilet   string   `json:"toilet"`
	Username string   `json:"username"`
	Rating   int      `json:"rating"`
	Comment  string   `json:"comment"`
	Photos   []string `json:"photos"`
}

// Create handles POST /v1/reviews.  Deliberately unauthenticated: travellers
// submit under a self-chosen display name.  The referenced toilet must exist
// before anything is persisted.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username is required"})
	}
	if !model.ValidRating(req.Rating) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
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

	rev := &model.Review{
		Toilet:   toiletID,
		Username: req.Username,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Photos:   req.Photos,
	}
	if err := h.Reviews.Create(ctx, rev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create review"})
	}
	return c.JSON(http.StatusCreated, rev)
}

// ListAll handles GET /v1/reviews (admin dashboard).
func (h *ReviewHandler) ListAll(c echo.Context) error {
	reviews, err := h.Reviews.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reviews})
}

// ListMine handles GET /v1/reviews/my.  The two-hop ownership filter: the
// operator's toilet ids first, then the reviews on those toilets.  Owning no
// toilets yields an empty list, not an error.
func (h *ReviewHandler) ListMine(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	ownedIDs, err := h.Toilets.IDsByOwner(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	reviews, err := h.Reviews.ListByToilets(ctx, ownedIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reviews})
}
