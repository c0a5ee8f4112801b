package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
)

// ErrInvalidDate reports a date string that could not be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD date, or an RFC 3339 timestamp, and returns
// midnight of that calendar day in loc. Date-only input is taken as-is so a
// workout on 2025-05-26 stays on the 26th in every time zone.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(models.DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Midnight(t.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// WeekStart returns the Monday that starts t's week. Sunday counts as day 7,
// so a Sunday belongs to the week of the previous Monday.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return Midnight(t).AddDate(0, 0, -(wd - 1))
}

// SameWeek reports whether a and b share a Monday-start week.
func SameWeek(a, b time.Time) bool {
	return WeekStart(a).Equal(WeekStart(b.In(a.Location())))
}

// SameMonth reports whether a and b share a calendar year and month.
func SameMonth(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// LongDate formats raw as "25 May 2025" for form headers.
func LongDate(raw string, loc *time.Location, labels Labels) (string, error) {
	d, err := ParseDate(raw, loc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %s %d", d.Day(), labels.Month(int(d.Month())-1), d.Year()), nil
}
