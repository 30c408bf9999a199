package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/restspot/restspot/internal/handler"    // import the handlers that implement business logic
	"github.com/restspot/restspot/internal/middleware" // import middleware for session authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the service
	// is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface.  Login lives under
// /v1/auth and needs no session; logout and /me require a valid session but
// no particular role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, users middleware.UserResolver) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	auth := e.Group("/v1", middleware.SessionAuth(jwtSecret, users))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}
