// Package repository implements persistence for users and time entries on
// top of database/sql.  State transitions are expressed as conditional
// updates (UPDATE guarded by the expected prior state, affected-row count
// checked) so they stay race-safe without in-process locks.  This file
// defines the sentinel errors handlers translate into HTTP responses.
package repository

import "errors"

// ErrEmailExists is returned when registration targets an email that is
// already stored.  Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrOpenEntryExists is returned when a check-in would create a second open
// entry for the same user.  It covers both the fast-path existence check
// and the storage-level uniqueness backstop.  Handlers translate this into
// HTTP 409.
var ErrOpenEntryExists = errors.New("open entry already exists")

// ErrNoOpenEntry is returned when a check-out finds no open entry for the
// user, including the case where the entry was closed concurrently between
// check and update.  Handlers translate this into HTTP 409.
var ErrNoOpenEntry = errors.New("no open entry")

// ErrNotReviewable is returned when a review decision matches no PENDING
// row, which covers both an unknown entry id and an already reviewed entry;
// the two cases are deliberately not distinguished.  Handlers translate
// this into HTTP 404.
var ErrNotReviewable = errors.New("entry not found or already reviewed")
