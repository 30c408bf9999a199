package router

import (
	"github.com/labstack/echo/v4"

	"github.com/restspot/restspot/internal/handler"
)

// RegisterPublic registers the unauthenticated browse and submission
// endpoints on the provided Echo instance.  These routes apply no session or
// role middleware and are intended for travellers who have no account.  The
// optional cache middleware is attached to the GET endpoints only; write
// endpoints must always reach the handlers.
func RegisterPublic(e *echo.Echo, t *handler.ToiletHandler, r *handler.ReviewHandler, c *handler.ComplaintHandler, cache echo.MiddlewareFunc) {
	gets := []echo.MiddlewareFunc{}
	if cache != nil {
		gets = append(gets, cache)
	}

	// Browse the facility directory and individual facilities.
	e.GET("/v1/toilets", t.ListAll, gets...)
	e.GET("/v1/toilets/:id", t.GetByID, gets...)
	// Anonymous review submission.  Listing every review stays on the admin
	// surface.
	e.POST("/v1/reviews", r.Create)
	// Anonymous complaint submission plus lookup by the name the traveller
	// filed under, so they can track progress without an account.
	e.POST("/v1/complaints", c.Create)
	e.GET("/v1/complaints/user/:username", c.ListByUsername, gets...)
}
