package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/time-tracker/internal/middleware"
	"github.com/iliyamo/time-tracker/internal/model"
	"github.com/iliyamo/time-tracker/internal/queue"
	"github.com/iliyamo/time-tracker/internal/repository"
	queue_publisher "github.com/iliyamo/time-tracker/internal/service"
	"github.com/iliyamo/time-tracker/internal/utils"
)

// TimeEntryHandler serves the session lifecycle endpoints: check-in,
// check-out, listing, stats, and the admin review queue.
type TimeEntryHandler struct {
	Entries *repository.TimeEntryRepo
}

func NewTimeEntryHandler(e *repository.TimeEntryRepo) *TimeEntryHandler {
	return &TimeEntryHandler{Entries: e}
}

// ----- DTOs -----

type checkOutReq struct {
	Summary string `json:"summary"`
}
type reviewReq struct {
	Action string `json:"action"` // APPROVE | REJECT
}

// entryResp is the JSON shape of a time entry.  Nullable columns render as
// null while the entry is still open or unreviewed.
type entryResp struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	Summary    *string    `json:"summary"`
	Status     *string    `json:"status"`
	ReviewerID *uint64    `json:"reviewer_id"`
}

type pendingEntryResp struct {
	entryResp
	UserName string `json:"user_name"`
}

func toEntryResp(e model.TimeEntry) entryResp {
	return entryResp{
		ID:         e.ID,
		UserID:     e.UserID,
		CheckIn:    e.CheckIn,
		CheckOut:   e.CheckOut,
		Summary:    e.Summary,
		Status:     e.Status,
		ReviewerID: e.ReviewerID,
	}
}

// CheckIn opens a new work session for the authenticated user.  The
// existence check is a fast path; the storage-level uniqueness backstop
// turns the check-then-insert race into the same 409.
func (h *TimeEntryHandler) CheckIn(c echo.Context) error {
	userID := middleware.CurrentUserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	open, err := h.Entries.HasOpen(ctx, userID)
	if err != nil {
		log.Printf("check-in: open-entry lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if open {
		return c.JSON(http.StatusConflict, echo.Map{"message": "An open session already exists"})
	}

	entryID, err := h.Entries.Open(ctx, userID)
	if err != nil {
		if err == repository.ErrOpenEntryExists {
			return c.JSON(http.StatusConflict, echo.Map{"message": "An open session already exists"})
		}
		log.Printf("check-in: insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Check-in registered", "entryId": entryID})
}

// CheckOut closes the open session, recording the summary and moving the
// entry to PENDING review.
func (h *TimeEntryHandler) CheckOut(c echo.Context) error {
	var req checkOutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}
	summary := strings.TrimSpace(req.Summary)
	if summary == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Summary is required"})
	}

	userID := middleware.CurrentUserID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Entries.Close(ctx, userID, summary); err != nil {
		if err == repository.ErrNoOpenEntry {
			return c.JSON(http.StatusConflict, echo.Map{"message": "No open session to close"})
		}
		log.Printf("check-out: close failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Check-out registered, pending approval"})
}

// MyEntries lists the caller's entries, newest first.  The from/to filter
// applies only when both query parameters are present and well-formed;
// supplying just one leaves the list unfiltered.
func (h *TimeEntryHandler) MyEntries(c echo.Context) error {
	var from, to *time.Time
	fromRaw, toRaw := c.QueryParam("from"), c.QueryParam("to")
	if fromRaw != "" {
		t, err := parseDate(fromRaw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid from date"})
		}
		from = &t
	}
	if toRaw != "" {
		t, err := parseDate(toRaw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid to date"})
		}
		to = &t
	}

	userID := middleware.CurrentUserID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Entries.ListByUser(ctx, userID, from, to)
	if err != nil {
		log.Printf("my-entries: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	out := make([]entryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Stats returns total approved hours for a named window ending now.
func (h *TimeEntryHandler) Stats(c echo.Context) error {
	rng := c.QueryParam("range")
	if rng == "" {
		rng = utils.RangeWeek
	}
	start, end, err := utils.DateRange(rng, time.Now())
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Range must be today, week, or month"})
	}

	userID := middleware.CurrentUserID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hours, err := h.Entries.ApprovedHours(ctx, userID, start, end)
	if err != nil {
		log.Printf("stats: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hours": hours, "range": rng})
}

// Pending lists every PENDING entry across users for the admin review
// queue, with the submitter's display name joined in.
func (h *TimeEntryHandler) Pending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.Entries.ListPending(ctx)
	if err != nil {
		log.Printf("pending: query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	out := make([]pendingEntryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, pendingEntryResp{entryResp: toEntryResp(e.TimeEntry), UserName: e.UserName})
	}
	return c.JSON(http.StatusOK, out)
}

// Review finalizes a PENDING entry.  The conditional update in the
// repository makes the decision exactly-once; a lost race surfaces as 404
// just like an unknown id.
func (h *TimeEntryHandler) Review(c echo.Context) error {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid entry id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid body"})
	}

	var status string
	switch req.Action {
	case model.ActionApprove:
		status = model.StatusApproved
	case model.ActionReject:
		status = model.StatusRejected
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid action"})
	}

	reviewerID := middleware.CurrentUserID(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Entries.Review(ctx, entryID, reviewerID, status); err != nil {
		if err == repository.ErrNotReviewable {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Entry not found or already reviewed"})
		}
		log.Printf("review: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	// Best-effort event for downstream payroll/notification consumers; a
	// broker outage never fails the review itself.
	_ = queue_publisher.PublishEntryReviewed(ctx, queue.EntryReviewedEvent{
		EntryID:    entryID,
		ReviewerID: reviewerID,
		Decision:   status,
		DecidedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Entry " + strings.ToLower(status)})
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
