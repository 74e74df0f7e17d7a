// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published to the slot.events queue.
const (
	// KindBooked: a member took the active reservation on a free slot.
	KindBooked = "BOOKED"
	// KindWaitlisted: the slot was taken and the member joined the
	// waiting list at the given rank.
	KindWaitlisted = "WAITLISTED"
	// KindPromoted: a cancellation moved the head of the waiting list
	// into the active reservation.
	KindPromoted = "PROMOTED"
)

// SlotEvent is published whenever the booking state of a slot changes.
// It carries enough information for downstream consumers to log or
// feed analytics without querying the service.
type SlotEvent struct {
	Kind       string `json:"kind"`
	BookingID  uint64 `json:"booking_id"`
	MemberID   uint64 `json:"member_id"`
	MemberName string `json:"member_name"`
	Date       string `json:"date"`
	TimeID     uint64 `json:"time_id"`
	ThemeID    uint64 `json:"theme_id"`
	Rank       int    `json:"rank,omitempty"` // set for WAITLISTED
	OccurredAt string `json:"occurred_at"`
}
