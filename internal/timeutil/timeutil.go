// ABOUTME: Calendar-date helpers for APOD date selection and navigation
// ABOUTME: Handles floor/today bounds, previous/next day, and date argument parsing

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO 8601 calendar date format (YYYY-MM-DD).
const Layout = "2006-01-02"

// DisplayLayout is the human-readable form used in notices.
const DisplayLayout = "Jan 2, 2006"

// Earliest date for which APOD has ever published content.
const (
	FloorYear  = 1995
	FloorMonth = time.June
	FloorDay   = 16
)

// Floor returns the first APOD date at midnight in loc.
func Floor(loc *time.Location) time.Time {
	return time.Date(FloorYear, FloorMonth, FloorDay, 0, 0, 0, 0, location(loc))
}

// DateOf truncates t to midnight of its calendar day as seen in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	loc = location(loc)
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Today returns midnight of the current day in loc, using now as the clock.
func Today(now time.Time, loc *time.Location) time.Time {
	return DateOf(now, loc)
}

// StartOfToday returns midnight of the current day in local time
func StartOfToday() time.Time {
	return Today(time.Now(), time.Local)
}

// AddDays moves a calendar date by n days, staying at midnight even across
// DST transitions.
func AddDays(d time.Time, n int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, d.Location())
}

// PreviousDay returns the day before d. No floor check is applied here.
func PreviousDay(d time.Time) time.Time {
	return AddDays(d, -1)
}

// NextDay returns the day after d. ok is false when that day would be after today.
func NextDay(d, today time.Time) (next time.Time, ok bool) {
	next = AddDays(d, 1)
	if next.After(today) {
		return d, false
	}
	return next, true
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// InRange reports whether d lies within [floor, today].
func InRange(d, today time.Time) bool {
	floor := Floor(d.Location())
	return !d.Before(floor) && !d.After(today)
}

// Format renders d as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(Layout)
}

// FormatDisplay renders d as "Jan 2, 2006".
func FormatDisplay(d time.Time) string {
	return d.Format(DisplayLayout)
}

// Parse reads a YYYY-MM-DD date as midnight in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date string is empty")
	}
	t, err := time.ParseInLocation(Layout, s, location(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDay converts a user-supplied day to a calendar date.
// Supported values: "today", "yesterday", or YYYY-MM-DD.
func ParseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return Today(now, loc), nil
	case "yesterday":
		return PreviousDay(Today(now, loc)), nil
	default:
		t, err := Parse(strings.TrimSpace(s), loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse date: use today, yesterday, or YYYY-MM-DD format")
		}
		return t, nil
	}
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
