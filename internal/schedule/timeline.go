package schedule

import (
	"fmt"
	"time"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// Default business-hours window of the day timeline.
const (
	DefaultFirstHour = 8
	DefaultLastHour  = 20
)

// Slot is one hour of a day timeline.
type Slot struct {
	Hour         int                  `json:"hour"`
	Label        string               `json:"label"`
	Start        string               `json:"start"` // YYYY-MM-DDTHH:00:00, the default start for a new appointment
	Appointments []domain.Appointment `json:"appointments"`
}

// DayTimeline builds hourly slots for date from firstHour through lastHour
// inclusive. Each slot lists the appointments whose interval overlaps that
// hour, sorted by start time; an appointment spanning several hours appears
// in each of them.
func DayTimeline(date string, list []domain.Appointment, firstHour, lastHour int) []Slot {
	day, err := domain.ParseDate(date)
	if err != nil || firstHour > lastHour {
		return []Slot{}
	}
	todays := Sort(FilterByDate(list, date))

	slots := make([]Slot, 0, lastHour-firstHour+1)
	for h := firstHour; h <= lastHour; h++ {
		start := day.Add(time.Duration(h) * time.Hour)
		s := Slot{
			Hour:         h,
			Label:        HourLabel(h),
			Start:        domain.FormatDateTime(start),
			Appointments: []domain.Appointment{},
		}
		for _, a := range todays {
			as, err := domain.ParseDateTime(a.StartTime)
			if err != nil {
				continue
			}
			if Overlaps(start, 60, as, a.Duration) {
				s.Appointments = append(s.Appointments, a)
			}
		}
		slots = append(slots, s)
	}
	return slots
}

// HourLabel renders an hour of day on a 12-hour clock ("8 AM", "12 PM").
func HourLabel(h int) string {
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d %s", h12, suffix)
}

// NowOffset returns the minutes elapsed since firstHour on date when the
// wall-clock reading now falls on date within [firstHour, lastHour+1).
// It drives the current-time indicator; ok is false outside the window.
func NowOffset(now time.Time, date string, firstHour, lastHour int) (minutes int, ok bool) {
	if domain.FormatDate(now) != date {
		return 0, false
	}
	mins := now.Hour()*60 + now.Minute()
	lo, hi := firstHour*60, (lastHour+1)*60
	if mins < lo || mins >= hi {
		return 0, false
	}
	return mins - lo, true
}
