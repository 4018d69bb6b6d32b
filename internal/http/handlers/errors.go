// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, not_found, conflict) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., date_mismatch, not_ready) are reserved for
//     calendar errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//   {
//     "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//     "code": "conflict",
//     "message": "overlaps \"Standup\" at 2025-03-10T09:00:00"
//   }

package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeConflict    = "conflict"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeTooLarge    = "payload_too_large"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeValidation       = "validation_failed"
	ErrCodeDateMismatch     = "date_mismatch"
	ErrCodeDuplicateID      = "duplicate_id"
	ErrCodeNotReady         = "not_ready"
	ErrCodeInvalidDate      = "invalid_date"
	ErrCodeInvalidMonth     = "invalid_month"
	ErrCodeInvalidView      = "invalid_view"
	ErrCodeInvalidCalendar  = "invalid_calendar"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
