package domain

import (
	"strings"
	"time"
)

// Textual layouts for dates and local start times. Both are zero-padded and
// zone-free, so lexical order equals chronological order.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
	MonthLayout    = "2006-01"
)

// ParseDate parses a YYYY-MM-DD string as midnight UTC. UTC is used only as
// a fixed frame so wall-clock arithmetic never crosses a DST shift.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseDateTime parses a YYYY-MM-DDTHH:MM:SS string in the same fixed frame.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.UTC)
}

// FormatDate renders the wall-clock date of t.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatDateTime renders the wall-clock date and time of t.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// DateFromStart returns the date portion of a start time string, or "" when
// the value is too short to carry one.
func DateFromStart(startTime string) string {
	d, _, ok := strings.Cut(startTime, "T")
	if !ok || len(d) != len(DateLayout) {
		return ""
	}
	return d
}

// LocalDate converts an instant into the host's local calendar date,
// expressed in the same zone-free form appointments use.
func LocalDate(now time.Time) string {
	return now.Local().Format(DateLayout)
}

// LocalWallClock returns now's local wall-clock reading re-expressed in the
// fixed UTC frame used by ParseDateTime, so it compares directly with
// appointment start times.
func LocalWallClock(now time.Time) time.Time {
	l := now.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}
