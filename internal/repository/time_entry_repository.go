package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/time-tracker/internal/model"
)

// TimeEntryRepo persists work sessions and drives their lifecycle:
// open (check_out NULL) -> PENDING on check-out -> APPROVED/REJECTED on
// review.  The PENDING->terminal and open->PENDING transitions are
// conditional updates; the affected-row count tells the caller whether the
// expected prior state still held.
type TimeEntryRepo struct{ DB *sql.DB }

func NewTimeEntryRepo(db *sql.DB) *TimeEntryRepo { return &TimeEntryRepo{DB: db} }

// HasOpen reports whether the user currently has an open entry.  This is a
// fast-path check only; the unique index on (user_id, open_marker) is the
// true guardian of the single-open-entry invariant.
func (r *TimeEntryRepo) HasOpen(ctx context.Context, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM time_entries WHERE user_id=? AND check_out IS NULL LIMIT 1",
		userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Open creates a new open entry with check_in = UTC now and returns its id.
// A duplicate-key error from the open-entry backstop index means another
// request won the race and is reported as ErrOpenEntryExists.
func (r *TimeEntryRepo) Open(ctx context.Context, userID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO time_entries (user_id, check_in) VALUES (?, UTC_TIMESTAMP())",
		userID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrOpenEntryExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Close transitions the user's open entry to PENDING, recording check_out
// and the summary.  The WHERE clause doubles as the state guard: zero
// affected rows means no open entry existed (or it was closed concurrently)
// and yields ErrNoOpenEntry.
func (r *TimeEntryRepo) Close(ctx context.Context, userID uint64, summary string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE time_entries SET check_out = UTC_TIMESTAMP(), summary = ?, status = ? WHERE user_id = ? AND check_out IS NULL",
		summary, model.StatusPending, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOpenEntry
	}
	return nil
}

// ListByUser returns the user's entries ordered by check_in descending.
// The date filter applies only when both bounds are present; a partial
// range is a no-op filter.
func (r *TimeEntryRepo) ListByUser(ctx context.Context, userID uint64, from, to *time.Time) ([]model.TimeEntry, error) {
	q := "SELECT id, user_id, check_in, check_out, summary, status, reviewer_id FROM time_entries WHERE user_id = ?"
	args := []interface{}{userID}
	if from != nil && to != nil {
		q += " AND check_in BETWEEN ? AND ?"
		args = append(args, from.UTC(), to.UTC())
	}
	q += " ORDER BY check_in DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.TimeEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PendingEntry is a PENDING time entry joined with the submitting user's
// display name for the admin review queue.
type PendingEntry struct {
	model.TimeEntry
	UserName string
}

// ListPending returns all PENDING entries across users, newest check-in
// first, with the submitter's name joined in.
func (r *TimeEntryRepo) ListPending(ctx context.Context) ([]PendingEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT te.id, te.user_id, te.check_in, te.check_out, te.summary, te.status, te.reviewer_id, u.name
		   FROM time_entries te
		   JOIN users u ON u.id = te.user_id
		  WHERE te.status = ?
		  ORDER BY te.check_in DESC`, model.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]PendingEntry, 0)
	for rows.Next() {
		var e PendingEntry
		var checkOut sql.NullTime
		var summary, status sql.NullString
		var reviewer sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &e.CheckIn, &checkOut, &summary, &status, &reviewer, &e.UserName); err != nil {
			return nil, err
		}
		fillNullable(&e.TimeEntry, checkOut, summary, status, reviewer)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Review finalizes a PENDING entry with the given terminal status and
// records the reviewer.  The status guard in the WHERE clause makes the
// decision exactly-once: zero affected rows means the entry does not exist
// or is no longer PENDING, reported as ErrNotReviewable.
func (r *TimeEntryRepo) Review(ctx context.Context, entryID, reviewerID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE time_entries SET status = ?, reviewer_id = ? WHERE id = ? AND status = ?",
		status, reviewerID, entryID, model.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotReviewable
	}
	return nil
}

// ApprovedHours sums the duration of the user's APPROVED entries whose
// check_in falls at or after start and check_out at or before end, in
// hours.  Returns 0 when nothing matches.
func (r *TimeEntryRepo) ApprovedHours(ctx context.Context, userID uint64, start, end time.Time) (float64, error) {
	var hours float64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(TIMESTAMPDIFF(SECOND, check_in, check_out)), 0) / 3600
		   FROM time_entries
		  WHERE user_id = ? AND status = ? AND check_in >= ? AND check_out <= ?`,
		userID, model.StatusApproved, start.UTC(), end.UTC()).Scan(&hours)
	if err != nil {
		return 0, err
	}
	return hours, nil
}

// scanEntry reads one time_entries row with its nullable columns.
func scanEntry(rows *sql.Rows) (model.TimeEntry, error) {
	var e model.TimeEntry
	var checkOut sql.NullTime
	var summary, status sql.NullString
	var reviewer sql.NullInt64
	if err := rows.Scan(&e.ID, &e.UserID, &e.CheckIn, &checkOut, &summary, &status, &reviewer); err != nil {
		return model.TimeEntry{}, err
	}
	fillNullable(&e, checkOut, summary, status, reviewer)
	return e, nil
}

func fillNullable(e *model.TimeEntry, checkOut sql.NullTime, summary, status sql.NullString, reviewer sql.NullInt64) {
	if checkOut.Valid {
		t := checkOut.Time
		e.CheckOut = &t
	}
	if summary.Valid {
		s := summary.String
		e.Summary = &s
	}
	if status.Valid {
		s := status.String
		e.Status = &s
	}
	if reviewer.Valid {
		id := uint64(reviewer.Int64)
		e.ReviewerID = &id
	}
}
