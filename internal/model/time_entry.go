package model

import "time"

// Status values for the time_entries.status enum.  An entry with a null
// check_out has no meaningful status yet; closing it moves it to PENDING,
// and a review decision moves it to one of the terminal states.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Review actions accepted by the admin review endpoint.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// TimeEntry mirrors a row of the `time_entries` table.  An entry is
// created at check-in with only check_in set ("open entry"); check-out
// fills check_out, summary and status.  At most one open entry may exist
// per user at any time.
//
// Fields:
//  ID         – primary key identifier of the entry.
//  UserID     – owner of the entry.
//  CheckIn    – session start, UTC, set at creation.
//  CheckOut   – session end, UTC (nil while the session is open).
//  Summary    – work summary supplied at check-out (nil while open).
//  Status     – PENDING/APPROVED/REJECTED (nil while open).
//  ReviewerID – admin who reviewed the entry (nil until reviewed).
type TimeEntry struct {
	ID         uint64     // time_entries.id
	UserID     uint64     // time_entries.user_id
	CheckIn    time.Time  // time_entries.check_in
	CheckOut   *time.Time // time_entries.check_out (nullable)
	Summary    *string    // time_entries.summary (nullable)
	Status     *string    // time_entries.status (nullable)
	ReviewerID *uint64    // time_entries.reviewer_id (nullable)
}
