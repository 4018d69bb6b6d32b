// Package domain defines the appointment record shared by the store, the
// scheduling logic, the persistence codec and the HTTP layer, together with
// the GORM model backing the SQLite key-value slots.
package domain

import (
	"strings"
	"time"
)

// Appointment is a titled time interval on a specific local date. It is the
// only persistent entity; its JSON shape is the persisted record shape.
//
// Fields:
//   - ID: opaque identifier, unique across the live collection.
//   - Date: local calendar date (YYYY-MM-DD); always equal to the date part of StartTime.
//   - StartTime: local wall-clock start (YYYY-MM-DDTHH:MM:SS, no zone suffix).
//   - Duration: whole minutes, > 0, no upper bound.
//   - Title: non-empty display string; length is bounded by the store.
type Appointment struct {
	ID        string `json:"id"        validate:"required"`
	Date      string `json:"date"      validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05"`
	Duration  int    `json:"duration"  validate:"gt=0"`
	Title     string `json:"title"     validate:"required"`
}

// Start returns the parsed start instant. Malformed StartTime yields the
// zero time; records are validated before they enter the store.
func (a Appointment) Start() time.Time {
	t, _ := ParseDateTime(a.StartTime)
	return t
}

// End returns Start plus Duration minutes.
func (a Appointment) End() time.Time {
	return AddMinutes(a.Start(), a.Duration)
}

const minutesPerDay = 24 * 60

// AddMinutes adds a whole number of minutes to t. Whole days go through
// AddDate, so durations longer than a time.Duration can hold (about 292
// years) still land on the right instant.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.AddDate(0, 0, minutes/minutesPerDay).Add(time.Duration(minutes%minutesPerDay) * time.Minute)
}

// AppointmentPatch carries a partial update. Nil fields retain the prior
// value of the record being updated.
type AppointmentPatch struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	Duration  *int    `json:"duration,omitempty"`
	Title     *string `json:"title,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p AppointmentPatch) Empty() bool {
	return p.Date == nil && p.StartTime == nil && p.Duration == nil && p.Title == nil
}

// Apply returns a copy of a with the non-nil patch fields merged in.
//
// Date and StartTime are kept in agreement: a new start time without a date
// re-derives the date, and a new date without a start time moves the start
// to the same wall-clock time on that date. When both are given they are
// copied verbatim and left for validation to compare.
func (p AppointmentPatch) Apply(a Appointment) Appointment {
	out := a
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Duration != nil {
		out.Duration = *p.Duration
	}
	switch {
	case p.StartTime != nil && p.Date != nil:
		out.StartTime = *p.StartTime
		out.Date = *p.Date
	case p.StartTime != nil:
		out.StartTime = *p.StartTime
		out.Date = DateFromStart(out.StartTime)
	case p.Date != nil:
		out.Date = *p.Date
		if _, clock, ok := strings.Cut(out.StartTime, "T"); ok {
			out.StartTime = *p.Date + "T" + clock
		}
	}
	return out
}

// KVEntry is a single named blob slot. The SQLite backend stores the
// serialized appointment collection and the checklist flags as rows of
// this table.
type KVEntry struct {
	Key       string    `gorm:"column:name;type:varchar(64);primaryKey"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for KVEntry.
func (KVEntry) TableName() string { return "kv_entries" }
