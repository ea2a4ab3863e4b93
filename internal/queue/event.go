// Package queue defines message payloads exchanged over the message broker.
package queue

// EntryReviewedEvent is published after an admin approves or rejects a time
// entry.  It carries enough information for downstream consumers (payroll
// export, notifications) to act without querying the primary database.
type EntryReviewedEvent struct {
	EntryID    uint64 `json:"entry_id"`
	ReviewerID uint64 `json:"reviewer_id"`
	Decision   string `json:"decision"` // APPROVED | REJECTED
	DecidedAt  string `json:"decided_at"`
}
