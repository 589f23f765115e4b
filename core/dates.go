package core

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// DateLayout is the ISO-8601 calendar date layout used by every record.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO `YYYY-MM-DD` date (surrounding whitespace allowed) as a UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseNullDate is ParseDate for optional dates.
func ParseNullDate(s null.String) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	return ParseDate(s.String)
}

// FormatDate renders the calendar date of `t` as `YYYY-MM-DD`.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates `t` to its calendar date (UTC midnight), dropping the time of day and location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date `n` days after `d`.
func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}
