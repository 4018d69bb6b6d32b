// Package schedule holds the pure scheduling logic over appointment
// collections: interval overlap, conflict detection, filtering, grouping,
// ordering, month enumeration and navigation, and the hourly day timeline.
//
// Nothing here performs I/O or mutates its inputs. Date and time strings are
// assumed to have been validated by the store; malformed values simply fail
// to match.
package schedule

import (
	"math"
	"time"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// Overlaps reports whether the half-open intervals [startA, startA+durA) and
// [startB, startB+durB) intersect. Durations are in minutes. Touching
// endpoints do not overlap, and a non-positive duration never overlaps
// anything.
func Overlaps(startA time.Time, durA int, startB time.Time, durB int) bool {
	if durA <= 0 || durB <= 0 {
		return false
	}
	// offset of B from A; start times are calendar dates, so this stays small
	d := startB.Unix() - startA.Unix()
	return d < minuteSeconds(durA) && -d < minuteSeconds(durB)
}

// minuteSeconds converts minutes to seconds, saturating at MaxInt64.
func minuteSeconds(m int) int64 {
	if int64(m) > math.MaxInt64/60 {
		return math.MaxInt64
	}
	return int64(m) * 60
}

// AppointmentsOverlap applies Overlaps to two appointments.
func AppointmentsOverlap(a, b domain.Appointment) bool {
	sa, errA := domain.ParseDateTime(a.StartTime)
	sb, errB := domain.ParseDateTime(b.StartTime)
	if errA != nil || errB != nil {
		return false
	}
	return Overlaps(sa, a.Duration, sb, b.Duration)
}

// FindConflict returns the existing appointment that blocks candidate, if
// any. Only appointments on the candidate's date are considered, and both
// excludeID and the candidate's own id are skipped so an edit never
// conflicts with itself.
//
// When several appointments conflict, the one with the earliest start time
// wins, ties broken by the smaller id, so the result never depends on
// collection order.
func FindConflict(candidate domain.Appointment, existing []domain.Appointment, excludeID string) (domain.Appointment, bool) {
	var (
		best  domain.Appointment
		found bool
	)
	for _, e := range existing {
		if e.Date != candidate.Date {
			continue
		}
		if e.ID == excludeID || (candidate.ID != "" && e.ID == candidate.ID) {
			continue
		}
		if !AppointmentsOverlap(candidate, e) {
			continue
		}
		if !found || less(e, best) {
			best, found = e, true
		}
	}
	return best, found
}
