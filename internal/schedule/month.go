package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// ErrInvalidMonth is returned by ParseMonth for malformed input.
var ErrInvalidMonth = errors.New("month must be YYYY-MM")

// Month is a (year, month) pair in the proleptic Gregorian calendar.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month { return Month{Year: t.Year(), Month: t.Month()} }

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.ParseInLocation(domain.MonthLayout, s, time.UTC)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return MonthOf(t), nil
}

// String renders the month as YYYY-MM.
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// Next returns the following month, rolling December into January of the
// next year.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Prev returns the preceding month, rolling January into December of the
// previous year.
func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// DaysIn returns the number of days in the month (28 to 31).
func DaysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days enumerates the month's dates from day 1 to the last day as
// YYYY-MM-DD strings.
func (m Month) Days() []string {
	n := DaysIn(m.Year, m.Month)
	out := make([]string, n)
	for d := 1; d <= n; d++ {
		out[d-1] = domain.FormatDate(time.Date(m.Year, m.Month, d, 0, 0, 0, 0, time.UTC))
	}
	return out
}

// Filter returns the appointments dated within m.
func (m Month) Filter(list []domain.Appointment) []domain.Appointment {
	return FilterByMonth(list, m.Year, int(m.Month))
}

// MonthDay is one entry of a month listing.
type MonthDay struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// MonthDays enumerates m with the weekday name and the number of
// appointments on each day.
func MonthDays(m Month, list []domain.Appointment) []MonthDay {
	counts := make(map[string]int)
	for _, a := range m.Filter(list) {
		counts[a.Date]++
	}
	days := m.Days()
	out := make([]MonthDay, len(days))
	for i, d := range days {
		t := time.Date(m.Year, m.Month, i+1, 0, 0, 0, 0, time.UTC)
		out[i] = MonthDay{Date: d, Day: i + 1, Weekday: t.Weekday().String(), Count: counts[d]}
	}
	return out
}
