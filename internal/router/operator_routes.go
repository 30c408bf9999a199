package router

import (
	"github.com/labstack/echo/v4"

	"github.com/restspot/restspot/internal/handler"
	"github.com/restspot/restspot/internal/middleware"
)

// RegisterOperator registers operator-scoped endpoints under /v1.  All routes
// require a valid session.  Most are restricted to the OPERATOR role; facility
// and complaint mutations additionally admit ADMIN so that administrators can
// act on any facility without switching accounts.
func RegisterOperator(
	e *echo.Echo,
	t *handler.ToiletHandler,
	r *handler.ReviewHandler,
	c *handler.ComplaintHandler,
	p *handler.PenaltyHandler,
	jwtSecret string,
	users middleware.UserResolver,
) {
	auth := middleware.SessionAuth(jwtSecret, users)

	// Routes an administrator may also call.  Ownership is still enforced in
	// the handlers: an operator only touches facilities anchored to them.
	shared := e.Group(
		"/v1",
		auth,
		middleware.RequireRole("OPERATOR", "ADMIN"),
	)
	shared.POST("/toilets", t.Create)
	shared.PATCH("/toilets/:id/status", t.UpdateStatus)
	shared.GET("/complaints/:id", c.GetByID)
	shared.PATCH("/complaints/:id/status", c.UpdateStatus)

	// Strictly operator-only views.  "my" always means the facilities the
	// caller created, so these make no sense for an administrator.
	g := e.Group(
		"/v1",
		auth,
		middleware.RequireRole("OPERATOR"),
	)
	g.GET("/toilets/my", t.ListMine)
	g.GET("/reviews/my", r.ListMine)
	g.GET("/complaints/my", c.ListMine)
	g.GET("/penalties/my", p.ListMine)
	g.PUT("/penalties/:id/pay", p.Pay)
}
