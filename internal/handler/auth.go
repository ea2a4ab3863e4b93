package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // sentinel comparison for missing users
    "log"          // server-side detail for best-effort failures
    "net/http"     // HTTP status codes and primitives
    "strings"      // string trimming utilities
    "time"         // timeouts for DB calls and the lockout clock

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/time-tracker/internal/config"     // app configuration
    "github.com/iliyamo/time-tracker/internal/model"      // role enum
    "github.com/iliyamo/time-tracker/internal/repository" // DB repositories
    "github.com/iliyamo/time-tracker/internal/utils"      // hashing, tokens, lockout policy
)

// Registration requires passwords of at least this many characters.
const minPasswordLen = 6

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | user, optional
}
type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login verifies credentials under the lockout policy and returns a signed
// 12h access token.  "Unknown email" and "wrong password" are collapsed
// into one message so callers cannot enumerate accounts.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetActiveByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		log.Printf("login: user lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	// Check temporary lock before touching the password at all.
	if lock := utils.EvaluateLockout(u.FailedAttempts, u.LastFailedAt, time.Now().UTC()); lock.Locked {
		return c.JSON(http.StatusForbidden, echo.Map{
			"message":           "Account temporarily locked. Try again later.",
			"lockTimeRemaining": lock.RemainingMinutes,
		})
	}

	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		// The counter mutation is the only durable signal of guessing
		// activity, but its failure must not mask the 401.
		if err := h.Users.IncrementFailedAttempts(ctx, u.Email); err != nil {
			log.Printf("login: increment failed attempts: %v", err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}

	// Successful login: reset counters and update last login.
	if err := h.Users.ResetFailedAttempts(ctx, u.Email); err != nil {
		log.Printf("login: reset failed attempts: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	// Best-effort; a stale last_login_at must not fail the login.
	if err := h.Users.UpdateLastLogin(ctx, u.Email); err != nil {
		log.Printf("login: update last login: %v", err)
	}

	token, err := utils.SignToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("login: sign token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Register creates a user.  The endpoint is gated by the static x-secret-key
// header; any holder of the secret may create users of any role, so the
// secret check runs before all other validation.
func (h *AuthHandler) Register(c echo.Context) error {
	if c.Request().Header.Get("x-secret-key") != h.Cfg.RegisterSecret {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Not authorized to register users"})
	}

	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Name, email, and password are required"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password min length 6"})
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "User already exists"})
		}
		log.Printf("register: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
	})
}
