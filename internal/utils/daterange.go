package utils

import (
	"errors"
	"time"
)

// Named stats ranges accepted by the stats endpoint.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// ErrUnknownRange is returned by DateRange for any value outside the
// supported set.
var ErrUnknownRange = errors.New("unknown range")

// DateRange resolves a named range into a concrete [start, end] window
// ending at now.  Windows are anchored in now's location:
//   today – midnight of the current day.
//   week  – Monday 00:00:00 of the current week (Sunday counts as day 7).
//   month – first day of the current month, 00:00:00.
func DateRange(name string, now time.Time) (start, end time.Time, err error) {
	switch name {
	case RangeToday:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case RangeWeek:
		// time.Weekday has Sunday=0; shift to ISO numbering so the week
		// starts on Monday.
		day := int(now.Weekday())
		if day == 0 {
			day = 7
		}
		monday := now.AddDate(0, 0, -(day - 1))
		start = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, now.Location())
	case RangeMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}, time.Time{}, ErrUnknownRange
	}
	return start, now, nil
}
