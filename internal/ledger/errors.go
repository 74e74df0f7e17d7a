// Package ledger owns all booking state for reservable slots: per
// slot, zero or one active reservation plus an ordered waiting list.
// It is the only component that mutates Reservation and WaitingEntry
// records. These sentinel values let handlers map ledger failures to
// HTTP responses without inspecting error strings.
package ledger

import "errors"

// ErrDuplicateBooking is returned when a member already holds the
// active reservation or a waiting entry for the requested slot.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicateBooking = errors.New("member already booked on this slot")

// ErrNotFound is returned when no active reservation or waiting entry
// exists for the given id. Handlers should translate this into an
// HTTP 404 response.
var ErrNotFound = errors.New("booking not found")

// ErrForbidden is returned when the requester neither owns the target
// booking nor carries the ADMIN role. The guard at the boundary makes
// the same check; the ledger re-validates ownership so that a handler
// bug can never cancel someone else's booking. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
