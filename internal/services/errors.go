// Package services defines the business logic of the calendar: the
// appointment store and its checklist flags. This file centralizes the
// service-level error values so they can be returned consistently by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/go-calendar-backend/internal/domain"
)

// Appointment-related errors.
var (
	// ErrNotReady is returned by mutations issued before the initial load
	// has completed.
	ErrNotReady = errors.New("appointment store is still loading")

	// ErrAppointmentNotFound indicates that no appointment has the given id.
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidAppointment wraps field validation failures (missing title,
	// non-positive duration, malformed date or start time).
	ErrInvalidAppointment = errors.New("invalid appointment")

	// ErrDateMismatch is returned when date and the date part of startTime
	// disagree.
	ErrDateMismatch = errors.New("date does not match startTime")

	// ErrDuplicateID is returned when a create supplies an id that is
	// already in use.
	ErrDuplicateID = errors.New("appointment id already exists")

	// ErrConflict matches any *ConflictError via errors.Is.
	ErrConflict = errors.New("appointment conflicts with an existing appointment")
)

// ConflictError names the existing appointment that blocked a save.
type ConflictError struct {
	Existing domain.Appointment
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %q at %s", ErrConflict.Error(), e.Existing.Title, e.Existing.StartTime)
}

// Unwrap lets errors.Is(err, ErrConflict) match.
func (e *ConflictError) Unwrap() error { return ErrConflict }
