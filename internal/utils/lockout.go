package utils

import "time"

// Lockout policy constants.  After MaxLoginAttempts consecutive failures a
// login is refused for LockWindow counted from the last failure, regardless
// of password correctness.  These are fixed policy values, not runtime
// configuration.
const (
	MaxLoginAttempts = 2
	LockWindow       = 30 * time.Minute
)

// LockStatus is the result of evaluating the lockout policy for a user.
// RemainingMinutes is only meaningful when Locked is true and is rounded
// up so that a lock never reports zero minutes while still active.
type LockStatus struct {
	Locked           bool
	RemainingMinutes int
}

// EvaluateLockout decides whether a login attempt must be refused.  It is a
// pure function of the stored failure counters and the supplied clock: the
// account is locked when the attempt count has reached MaxLoginAttempts and
// less than LockWindow has elapsed since the last failure.  A nil
// lastFailedAt means no recorded failure and never locks.
func EvaluateLockout(failedAttempts int, lastFailedAt *time.Time, now time.Time) LockStatus {
	if failedAttempts < MaxLoginAttempts || lastFailedAt == nil {
		return LockStatus{}
	}
	elapsed := now.Sub(*lastFailedAt)
	if elapsed >= LockWindow {
		return LockStatus{}
	}
	remaining := LockWindow - elapsed
	// Ceiling division to whole minutes.
	mins := int((remaining + time.Minute - 1) / time.Minute)
	return LockStatus{Locked: true, RemainingMinutes: mins}
}
