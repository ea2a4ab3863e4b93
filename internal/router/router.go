package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/time-tracker/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/time-tracker/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/time-tracker/internal/model"      // role names for route guards
	"github.com/iliyamo/time-tracker/internal/repository" // user repo needed by the access guard
)

// RegisterRoutes registers routes that do not require authentication:
// a root banner and a health check for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Home)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the credential endpoints under /api/auth.  Both
// run before any session exists, which is why they are the ones wrapped in
// the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limiter)
	// POST /api/auth/login exchanges credentials for a 12h bearer token.
	g.POST("/login", a.Login)
	// POST /api/auth/register creates a user; gated by the x-secret-key header.
	g.POST("/register", a.Register)
}

// RegisterTime registers the session lifecycle endpoints.  Every route
// requires a valid bearer token; the access guard reloads the live user on
// each request, and the admin group additionally requires the admin role.
func RegisterTime(e *echo.Echo, h *handler.TimeEntryHandler, jwtSecret string, users *repository.UserRepo) {
	auth := middleware.Auth(jwtSecret, users)

	g := e.Group("/api/time", auth, middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	g.POST("/check-in", h.CheckIn)
	g.PATCH("/check-out", h.CheckOut)
	g.GET("/my", h.MyEntries)
	g.GET("/stats", h.Stats)

	admin := e.Group("/api/admin/time", auth, middleware.RequireRole(model.RoleAdmin))
	admin.GET("/pending", h.Pending)
	admin.PATCH("/:id/review", h.Review)
}
