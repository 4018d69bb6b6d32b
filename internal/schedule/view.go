package schedule

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// View selects a subset of appointments relative to today.
type View string

// Supported views.
const (
	ViewAll      View = "all"
	ViewToday    View = "today"
	ViewUpcoming View = "upcoming"
)

// ParseView maps a query value to a View; empty means ViewAll.
func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewAll:
		return ViewAll, true
	case ViewToday:
		return ViewToday, true
	case ViewUpcoming:
		return ViewUpcoming, true
	}
	return "", false
}

// FilterView applies v given today's date (YYYY-MM-DD). Upcoming includes
// today.
func FilterView(list []domain.Appointment, v View, today string) []domain.Appointment {
	switch v {
	case ViewToday:
		return FilterByDate(list, today)
	case ViewUpcoming:
		return FilterByRange(list, today, "")
	default:
		return filter(list, func(domain.Appointment) bool { return true })
	}
}

// FormatDuration renders minutes as "45m", "2h" or "1h 30m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
