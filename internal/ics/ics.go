// Package ics renders the appointment collection as an iCalendar document
// and reads such documents back.
//
// Appointments carry zone-free wall-clock times, so DTSTART and DTEND are
// written as floating local times (no TZID, no trailing Z). DTSTAMP is the
// only UTC value in an exported event. Lines end in CRLF on every platform.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-calendar-backend/internal/domain"
	"github.com/tbourn/go-calendar-backend/internal/schedule"
)

// ContentType is the media type of an exported calendar.
const ContentType = "text/calendar; charset=utf-8"

const (
	floatingLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
	dateLayout     = "20060102"
)

// ErrEmpty is returned by Import when the input has no bytes.
var ErrEmpty = errors.New("empty ICS body")

// Options controls the calendar-level properties of an export.
type Options struct {
	ProductID string
	Name      string
	// Stamp is written as DTSTAMP on every event.
	Stamp time.Time
}

// Export renders list as a VCALENDAR with one VEVENT per appointment, in
// listing order. Records with an unparsable start time are skipped.
func Export(list []domain.Appointment, opts Options) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if opts.ProductID != "" {
		cal.SetProductId(opts.ProductID)
	}
	if opts.Name != "" {
		cal.SetName(opts.Name)
	}

	for _, a := range schedule.Sort(list) {
		start, err := domain.ParseDateTime(a.StartTime)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(a.ID)
		ev.SetDtStampTime(opts.Stamp)
		ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(floatingLayout))
		ev.SetProperty(ical.ComponentPropertyDtEnd, a.End().Format(floatingLayout))
		ev.SetSummary(a.Title)
	}
	return []byte(cal.Serialize(ical.WithNewLineWindows))
}

// Import parses an iCalendar document into appointments. Events without a
// UID, a start or an end are logged and skipped; all-day events are skipped
// because appointments always have a start time. The returned records are
// not validated against each other.
func Import(r io.Reader) ([]domain.Appointment, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmpty
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	out := make([]domain.Appointment, 0, len(cal.Events()))
	for _, ev := range cal.Events() {
		a, err := fromEvent(ev)
		if err != nil {
			log.Warn().Err(err).Msg("ics: skipping event")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func fromEvent(ev *ical.VEvent) (domain.Appointment, error) {
	var a domain.Appointment
	uid := ev.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || strings.TrimSpace(uid.Value) == "" {
		return a, errors.New("missing UID")
	}
	a.ID = strings.TrimSpace(uid.Value)

	start, err := propTime(ev, ical.ComponentPropertyDtStart)
	if err != nil {
		return a, fmt.Errorf("event %s: DTSTART: %w", a.ID, err)
	}
	end, err := propTime(ev, ical.ComponentPropertyDtEnd)
	if err != nil {
		return a, fmt.Errorf("event %s: DTEND: %w", a.ID, err)
	}
	mins := int((end.Unix() - start.Unix()) / 60)
	if mins <= 0 {
		return a, fmt.Errorf("event %s: end is not after start", a.ID)
	}

	a.StartTime = domain.FormatDateTime(start)
	a.Date = domain.FormatDate(start)
	a.Duration = mins
	if s := ev.GetProperty(ical.ComponentPropertySummary); s != nil {
		a.Title = s.Value
	}
	return a, nil
}

// propTime reads a date-time property as a wall-clock reading in the fixed
// UTC frame used by the domain package. UTC values are converted to the
// host's local wall clock; date-only values are rejected.
func propTime(ev *ical.VEvent, name ical.ComponentProperty) (time.Time, error) {
	p := ev.GetProperty(name)
	if p == nil {
		return time.Time{}, errors.New("missing")
	}
	v := strings.TrimSpace(p.Value)
	switch {
	case len(v) == len(dateLayout):
		return time.Time{}, errors.New("all-day events are not supported")
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(utcLayout, v)
		if err != nil {
			return time.Time{}, err
		}
		return domain.LocalWallClock(t), nil
	default:
		return time.ParseInLocation(floatingLayout, v, time.UTC)
	}
}
