// Package service contains the reservation orchestrator: the single
// entry point callers use to register students, manage rooms and
// create, query and cancel bookings. It pulls entities through the
// persistence gateway, applies the scheduling rules and pushes state
// changes back. Every failure is one of the inspectable error kinds
// defined in this file; the orchestrator never swallows or retries.
package service

import (
	"fmt"
	"strings"
)

// NotFoundError reports that an identifier did not resolve to an
// entity. Resource names the entity kind ("student", "room",
// "booking").
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ValidationError reports structural rule violations. Violations holds
// human-readable messages in the order the checks ran; it is never
// empty.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// ConflictError reports that the requested slot overlaps an existing
// active booking. Scope distinguishes a room clash from a student
// double-booking themselves so callers can message them differently.
type ConflictError struct {
	Scope string // "room" or "student"
}

func (e *ConflictError) Error() string {
	if e.Scope == "student" {
		return "student already has an active booking in that time range"
	}
	return "room is already booked in that time range"
}

// PolicyDeniedError reports that the cancellation policy refused the
// acting party, as opposed to the booking being in a state that cannot
// be cancelled at all.
type PolicyDeniedError struct {
	Reason string
}

func (e *PolicyDeniedError) Error() string { return "cancellation denied: " + e.Reason }

// StateError reports an operation attempted against an entity in an
// incompatible status, such as cancelling an already-cancelled booking
// or deleting a room that still has active bookings.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return e.Reason }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Violations: []string{fmt.Sprintf(format, args...)}}
}
