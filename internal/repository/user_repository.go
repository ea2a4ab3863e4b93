package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/time-tracker/internal/model"
	"github.com/iliyamo/time-tracker/internal/utils"
)

// UserRepo is the credential store.  Besides identity it owns the
// failed-attempt counters mutated on every login attempt; those counters
// are the only durable signal of password-guessing activity.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts a new user.  Emails are stored
// exactly as supplied; uniqueness is case-sensitive.  The plaintext
// password never leaves this function unhashed.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		// MySQL 1062 = duplicate key, here the unique index on email.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: uint64(id), Name: name, Email: email, Role: role, IsActive: true}, nil
}

// GetActiveByEmail fetches an active user by email including the lockout
// counters.  Inactive users are invisible here, which is what lets the
// access guard reject deactivated accounts holding still-valid tokens.
// Returns sql.ErrNoRows when no active user matches.
func (r *UserRepo) GetActiveByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	var lastFailed, lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,failed_attempts,last_failed_at,last_login_at,is_active,created_at,updated_at FROM users WHERE email=? AND is_active=1 LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.FailedAttempts,
		&lastFailed, &lastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if lastFailed.Valid {
		t := lastFailed.Time
		u.LastFailedAt = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// IncrementFailedAttempts bumps the failure counter and stamps the failure
// time after a wrong password.
func (r *UserRepo) IncrementFailedAttempts(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts = failed_attempts + 1, last_failed_at = UTC_TIMESTAMP() WHERE email=?",
		email)
	return err
}

// ResetFailedAttempts clears the failure counter and timestamp after a
// successful login.
func (r *UserRepo) ResetFailedAttempts(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts = 0, last_failed_at = NULL WHERE email=?",
		email)
	return err
}

// UpdateLastLogin stamps last_login_at.  Callers treat failures as
// best-effort; a login must not fail because this bookkeeping did.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_at = UTC_TIMESTAMP() WHERE email=?",
		email)
	return err
}
