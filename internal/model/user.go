package model

import "time"

// Allowed role names for the users.role enum.  The register endpoint
// validates requested roles against these values and defaults to RoleUser
// when none is supplied.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether the given role is part of the closed enum.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted because these structs are used internally by the
// repository layer; handlers define separate response types.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Name           – display name shown to reviewers.
//  Email          – unique email address (case-sensitive as stored).
//  PasswordHash   – bcrypt hashed password.
//  Role           – role name ("admin" or "user").
//  FailedAttempts – consecutive failed login attempts since the last success.
//  LastFailedAt   – when the most recent failed attempt happened (nil if none).
//  LastLoginAt    – when the user last logged in successfully (nil if never).
//  IsActive       – whether the account is active; inactive users are
//                   invisible to credential lookups.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type User struct {
	ID             uint64     // users.id
	Name           string     // users.name
	Email          string     // users.email
	PasswordHash   string     // users.password_hash
	Role           string     // users.role
	FailedAttempts int        // users.failed_attempts
	LastFailedAt   *time.Time // users.last_failed_at (nullable)
	LastLoginAt    *time.Time // users.last_login_at (nullable)
	IsActive       bool       // users.is_active
	CreatedAt      time.Time  // users.created_at
	UpdatedAt      time.Time  // users.updated_at
}
