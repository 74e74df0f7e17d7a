package model

import "time"

// Reservation is the single confirmed booking currently holding a
// slot. At most one active Reservation exists per SlotKey at any
// instant; the ledger enforces this. A reservation is destroyed only
// by cancellation, which may promote the head of the slot's waiting
// list into a new active reservation.
//
// Fields:
//  ID         – booking identifier. A promoted waiting entry keeps its
//               id, so clients can correlate across the promotion.
//  Slot       – the slot being held.
//  MemberID   – member who holds the slot.
//  MemberName – display name captured at booking time.
//  CreatedAt  – when this reservation became active (set again on
//               promotion).
type Reservation struct {
	ID         uint64
	Slot       SlotKey
	MemberID   uint64
	MemberName string
	CreatedAt  time.Time
}

// WaitingEntry is a queued request for a slot currently held by
// another booking. Entries for a slot form a strict FIFO chain ordered
// by EnqueuedAt; a member holds at most one entry per slot. An entry's
// rank is never stored; it is always recomputed from the live chain.
//
// Fields:
//  ID         – waiting entry identifier (becomes the reservation id
//               on promotion).
//  Slot       – the contested slot.
//  MemberID   – member waiting for the slot.
//  MemberName – display name captured at enqueue time.
//  EnqueuedAt – enqueue instant; used only for ordering.
type WaitingEntry struct {
	ID         uint64
	Slot       SlotKey
	MemberID   uint64
	MemberName string
	EnqueuedAt time.Time
}
