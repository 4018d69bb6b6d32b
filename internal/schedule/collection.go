package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// DateGroup is one bucket produced by GroupByDate.
type DateGroup struct {
	Date         string               `json:"date"`
	Appointments []domain.Appointment `json:"appointments"`
}

// less is the total order used for listing: date, then start time, then id.
// Lexical comparison is valid because both textual forms are zero-padded and
// zone-free.
func less(a, b domain.Appointment) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	return a.ID < b.ID
}

// Sort returns a sorted copy of list ordered by date, then start time.
// The id is used as a final key so equal slots have a stable order.
func Sort(list []domain.Appointment) []domain.Appointment {
	out := make([]domain.Appointment, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FilterByDate returns the appointments whose date equals date.
func FilterByDate(list []domain.Appointment, date string) []domain.Appointment {
	return filter(list, func(a domain.Appointment) bool { return a.Date == date })
}

// FilterByMonth returns the appointments dated within the given year and
// month.
func FilterByMonth(list []domain.Appointment, year, month int) []domain.Appointment {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	return filter(list, func(a domain.Appointment) bool {
		return len(a.Date) == len(domain.DateLayout) && strings.HasPrefix(a.Date, prefix)
	})
}

// FilterByRange returns the appointments dated within [from, to], both
// inclusive. An empty bound is open.
func FilterByRange(list []domain.Appointment, from, to string) []domain.Appointment {
	return filter(list, func(a domain.Appointment) bool {
		if from != "" && a.Date < from {
			return false
		}
		if to != "" && a.Date > to {
			return false
		}
		return true
	})
}

// GroupByDate partitions list into per-date buckets. Buckets are returned in
// ascending date order and each bucket is sorted by start time.
func GroupByDate(list []domain.Appointment) []DateGroup {
	sorted := Sort(list)
	groups := make([]DateGroup, 0)
	for _, a := range sorted {
		n := len(groups)
		if n == 0 || groups[n-1].Date != a.Date {
			groups = append(groups, DateGroup{Date: a.Date})
			n++
		}
		groups[n-1].Appointments = append(groups[n-1].Appointments, a)
	}
	return groups
}

func filter(list []domain.Appointment, keep func(domain.Appointment) bool) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(list))
	for _, a := range list {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
