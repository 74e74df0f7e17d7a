package ledger

import (
	"fmt"
	"sort"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// StatusReserved is the display status of an active reservation.
const StatusReserved = "RESERVED"

// WaitingStatus renders the display status of a waiting entry from
// its live rank, e.g. "1 waiting".
func WaitingStatus(rank int) string {
	return fmt.Sprintf("%d waiting", rank)
}

// MemberBooking is one row of a member's booking overview: an active
// reservation or a waiting entry, tagged with its display status. Rank
// is zero for active reservations.
type MemberBooking struct {
	ID     uint64
	Slot   model.SlotKey
	Status string
	Rank   int
}

// ProjectMember computes the member's current bookings with their
// display statuses. The status of a waiting entry is derived from its
// rank at projection time, never from a stored field, so withdrawals
// and promotions elsewhere are reflected immediately. The projection
// has no side effects and is safe to call concurrently with mutations;
// each slot is observed in a single consistent snapshot. Rows are
// ordered by booking id.
func (l *Ledger) ProjectMember(memberID uint64) []MemberBooking {
	var out []MemberBooking
	for _, r := range l.ActiveForMember(memberID) {
		out = append(out, MemberBooking{ID: r.ID, Slot: r.Slot, Status: StatusReserved})
	}
	for _, w := range l.WaitingForMember(memberID) {
		out = append(out, MemberBooking{
			ID:     w.Entry.ID,
			Slot:   w.Entry.Slot,
			Status: WaitingStatus(w.Rank),
			Rank:   w.Rank,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
