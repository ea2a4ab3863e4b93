package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware that enforces that the authenticated
// user has one of the given roles.  It must run after Auth, which stores
// the live role in the context under "role".  A missing identity yields
// 401 — that branch should be unreachable given correct composition but is
// kept as a guard against misregistered routes.  A present but disallowed
// role yields 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || role == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not authenticated"})
            }
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden: insufficient rights"})
            }
            return next(c)
        }
    }
}
