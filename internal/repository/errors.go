// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios without inspecting SQL errors.  The booking
// core's taxonomy lives here: ErrSeatsUnavailable for a lock attempt that
// could not claim every requested seat, ErrFinalizationFailed for a
// finalize whose seat update did not apply, and ErrBookingFailed for the
// recognized inconsistency where seats were marked sold but the booking
// row could not be written.
package repository

import "errors"

// ErrSeatsUnavailable is returned when a lock attempt matched fewer seats
// than requested.  The attempt is rolled back as a whole; no partial lock
// remains.  Handlers should translate this into an HTTP 409 response.
var ErrSeatsUnavailable = errors.New("seats unavailable")

// ErrFinalizationFailed is returned when the finalize seat update did not
// apply to every named seat, typically because the caller no longer holds
// the lock.  No booking row is created.  Handlers should translate this
// into an HTTP 409 response.
var ErrFinalizationFailed = errors.New("finalization failed")

// ErrBookingFailed is returned when the booking insert fails after the
// seats were already marked unavailable.  The seat update is not undone;
// this is the documented inconsistency window of the two-step finalize.
// Handlers should translate this into an HTTP 500 response.
var ErrBookingFailed = errors.New("booking failed")

// ErrEmailExists is returned on registration when the email address is
// already taken.  Handlers should translate this into an HTTP 409
// response.
var ErrEmailExists = errors.New("email already exists")

// ErrShowtimeNotFound is returned when a showtime lookup matches no row.
// Handlers should translate this into an HTTP 404 response.
var ErrShowtimeNotFound = errors.New("showtime not found")
