package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/time-tracker/internal/model"
	"github.com/iliyamo/time-tracker/internal/repository"
)

func newTimeEntryHandler(t *testing.T) (*TimeEntryHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTimeEntryHandler(repository.NewTimeEntryRepo(db)), mock
}

// authedContext builds an echo context carrying the identity the access
// guard would have attached.
func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint64, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("email", "a@b.com")
	c.Set("role", role)
	return c
}

func TestCheckIn_SecondOpenSessionConflicts(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT 1 FROM time_entries").
		WithArgs(uint64(7)).
		WillReturnRows(mock.NewRows([]string{"1"}).AddRow(1))

	req, rec := jsonRequest(http.MethodPost, "/api/time/check-in", "")
	require.NoError(t, h.CheckIn(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusConflict, rec.Code)
	// No INSERT was attempted.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_CreatesOpenEntry(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT 1 FROM time_entries").
		WithArgs(uint64(7)).
		WillReturnRows(mock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO time_entries").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	req, rec := jsonRequest(http.MethodPost, "/api/time/check-in", "")
	require.NoError(t, h.CheckIn(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(42), body["entryId"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_RaceCaughtByBackstop(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT 1 FROM time_entries").
		WithArgs(uint64(7)).
		WillReturnRows(mock.NewRows([]string{"1"}))
	mock.ExpectExec("INSERT INTO time_entries").
		WithArgs(uint64(7)).
		WillReturnError(&mysqlDuplicateErr{})

	req, rec := jsonRequest(http.MethodPost, "/api/time/check-in", "")
	require.NoError(t, h.CheckIn(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_EmptySummaryRejectedBeforeStore(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPatch, "/api/time/check-out", `{"summary":"   "}`)
	require.NoError(t, h.CheckOut(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	// The open entry stays untouched: no UPDATE was issued.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_NoOpenSession(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_entries SET check_out = UTC_TIMESTAMP()")).
		WithArgs("did things", model.StatusPending, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req, rec := jsonRequest(http.MethodPatch, "/api/time/check-out", `{"summary":"did things"}`)
	require.NoError(t, h.CheckOut(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_TransitionsToPending(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE time_entries SET check_out = UTC_TIMESTAMP()")).
		WithArgs("wrote the report", model.StatusPending, uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := jsonRequest(http.MethodPatch, "/api/time/check-out", `{"summary":"wrote the report"}`)
	require.NoError(t, h.CheckOut(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMyEntries_PartialRangeIsNoOpFilter(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	// from present, to absent: the query must carry no BETWEEN clause.
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = ? ORDER BY check_in DESC")).
		WithArgs(uint64(7)).
		WillReturnRows(mock.NewRows([]string{"id", "user_id", "check_in", "check_out", "summary", "status", "reviewer_id"}))

	req, rec := jsonRequest(http.MethodGet, "/api/time/my?from=2025-03-01", "")
	require.NoError(t, h.MyEntries(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMyEntries_BadDate(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/api/time/my?from=yesterday&to=2025-03-31", "")
	require.NoError(t, h.MyEntries(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStats_DefaultsToWeek(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs(uint64(7), model.StatusApproved, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(mock.NewRows([]string{"hours"}).AddRow(0.0))

	req, rec := jsonRequest(http.MethodGet, "/api/time/stats", "")
	require.NoError(t, h.Stats(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "week", body["range"])
	require.Equal(t, float64(0), body["hours"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStats_UnknownRange(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodGet, "/api/time/stats?range=quarter", "")
	require.NoError(t, h.Stats(authedContext(e, req, rec, 7, "user")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReview_InvalidAction(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPatch, "/api/admin/time/42/review", `{"action":"MAYBE"}`)
	c := authedContext(e, req, rec, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReview_BadEntryID(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	req, rec := jsonRequest(http.MethodPatch, "/api/admin/time/latest/review", `{"action":"APPROVE"}`)
	c := authedContext(e, req, rec, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("latest")
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReview_ApproveThenSecondDecisionIsNotFound(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	reviewQuery := regexp.QuoteMeta("UPDATE time_entries SET status = ?, reviewer_id = ?")
	mock.ExpectExec(reviewQuery).
		WithArgs(model.StatusApproved, uint64(1), uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := jsonRequest(http.MethodPatch, "/api/admin/time/42/review", `{"action":"APPROVE"}`)
	c := authedContext(e, req, rec, 1, "admin")
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Review(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Entry approved", body["message"])

	// The entry is no longer PENDING: the second decision matches no row.
	mock.ExpectExec(reviewQuery).
		WithArgs(model.StatusRejected, uint64(1), uint64(42), model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req2, rec2 := jsonRequest(http.MethodPatch, "/api/admin/time/42/review", `{"action":"REJECT"}`)
	c2 := authedContext(e, req2, rec2, 1, "admin")
	c2.SetParamNames("id")
	c2.SetParamValues("42")
	require.NoError(t, h.Review(c2))
	require.Equal(t, http.StatusNotFound, rec2.Code)
	require.Equal(t, "Entry not found or already reviewed", decodeBody(t, rec2)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPending_IncludesSubmitterName(t *testing.T) {
	h, mock := newTimeEntryHandler(t)
	e := echo.New()

	rows := mock.NewRows([]string{"id", "user_id", "check_in", "check_out", "summary", "status", "reviewer_id", "name"})
	mock.ExpectQuery("JOIN users u ON u.id = te.user_id").
		WithArgs(model.StatusPending).
		WillReturnRows(rows)

	req, rec := jsonRequest(http.MethodGet, "/api/admin/time/pending", "")
	require.NoError(t, h.Pending(authedContext(e, req, rec, 1, "admin")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}
