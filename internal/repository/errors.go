// Package repository provides access to the durable collaborator data
// behind the booking core: member accounts and the slot catalog
// (themes and time slots). It defines sentinel error values reused
// across stores so that handlers can distinguish failure scenarios
// without string matching.
package repository

import "errors"

// ErrEmailExists is returned when registering a member with an email
// that is already taken. Handlers should translate this into an HTTP
// 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrMemberNotFound is returned when no member matches the given
// email or id.
var ErrMemberNotFound = errors.New("member not found")

// ErrThemeNotFound is returned when a booking request references a
// theme id that is not in the catalog. Handlers should translate this
// into an HTTP 404 response.
var ErrThemeNotFound = errors.New("theme not found")

// ErrTimeSlotNotFound is returned when a booking request references a
// time slot id that is not in the catalog. Handlers should translate
// this into an HTTP 404 response.
var ErrTimeSlotNotFound = errors.New("time slot not found")
