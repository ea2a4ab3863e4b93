package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"     // bounded contexts for the per-request user reload
    "database/sql" // distinguish missing users from store failures
    "net/http"    // HTTP status codes for responses
    "strings"     // string utilities for prefix checking and trimming
    "time"        // timeout for the store lookup

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/time-tracker/internal/repository"
    "github.com/iliyamo/time-tracker/internal/utils"
)

// Auth returns an Echo middleware that validates a Bearer access token and
// then re-resolves the user from the credential store.  The token alone is
// not trusted: a user deactivated after issuance is rejected even though
// the signature is still valid, at the cost of one store lookup per
// request.  On success the live identity is stored in the context under
// "user_id", "email" and "role" for downstream handlers.
func Auth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied, token missing"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Signature and expiry checks.  Malformed, tampered and expired
            // tokens all produce the same response.
            claims, err := utils.VerifyToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token"})
            }

            // Reload the user by the claim email.  Only active users are
            // visible to this lookup, so deactivated or deleted accounts
            // fall out here.
            ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
            defer cancel()
            u, err := users.GetActiveByEmail(ctx, claims.Email)
            if err != nil {
                if err == sql.ErrNoRows {
                    return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User inactive or not found"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
            }

            // Attach the live identity, not the token payload, to the
            // request context.
            c.Set("user_id", u.ID)
            c.Set("email", u.Email)
            c.Set("role", u.Role)
            return next(c)
        }
    }
}

// CurrentUserID returns the authenticated user's id from the context, or 0
// when no identity was attached.
func CurrentUserID(c echo.Context) uint64 {
    if v, ok := c.Get("user_id").(uint64); ok {
        return v
    }
    return 0
}
