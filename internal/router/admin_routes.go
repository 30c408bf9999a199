package router

import (
	"github.com/labstack/echo/v4"

	"github.com/restspot/restspot/internal/handler"
	"github.com/restspot/restspot/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  Administrators
// provision operator accounts, see every review and complaint in the system
// and manage penalties.
func RegisterAdmin(
	e *echo.Echo,
	a *handler.AuthHandler,
	r *handler.ReviewHandler,
	c *handler.ComplaintHandler,
	p *handler.PenaltyHandler,
	jwtSecret string,
	users middleware.UserResolver,
) {
	g := e.Group(
		"/v1",
		middleware.SessionAuth(jwtSecret, users),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Operator accounts ----
	g.POST("/auth/operators", a.CreateOperator)
	g.GET("/operators", a.ListOperators)

	// ---- Moderation views ----
	g.GET("/reviews", r.ListAll)
	g.GET("/complaints", c.ListAll)
	g.GET("/complaints/operator/:operatorId", c.ListByOperator)

	// ---- Penalties ----
	g.POST("/penalties", p.Issue)
	g.GET("/penalties", p.ListAll)
	g.GET("/penalties/operator/:operatorId", p.ListByOperator)
}
