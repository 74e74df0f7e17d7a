package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// Outcome tags the result of a booking attempt. Booking onto a full
// slot is a success with a different outcome kind, not a failure.
type Outcome string

const (
	// OutcomeBooked means the member now holds the slot's active reservation.
	OutcomeBooked Outcome = "BOOKED"
	// OutcomeWaitlisted means the slot was taken and the member was
	// appended to the tail of its waiting list.
	OutcomeWaitlisted Outcome = "WAITLISTED"
)

// BookingResult is returned synchronously from Book. Exactly one of
// Reservation or Waiting is set, matching the Outcome. Rank is a
// snapshot taken inside the slot's critical section, not stored truth;
// it may shift as earlier waiters leave.
type BookingResult struct {
	Outcome     Outcome
	Reservation *model.Reservation
	Waiting     *model.WaitingEntry
	Rank        int
}

// CancelResult reports what Cancel did. Promoted is the new active
// reservation created from the former head of the waiting list, or
// nil when the list was empty.
type CancelResult struct {
	Promoted *model.Reservation
}

// WaitingPosition pairs a waiting entry with its rank at read time.
type WaitingPosition struct {
	Entry model.WaitingEntry
	Rank  int
}

// slotState is the per-slot record: the optional active reservation
// plus the FIFO waiting list. Every mutation and every consistent read
// of a slot happens under its own mutex, so operations on independent
// slots proceed in parallel while check-then-act sequences on one slot
// stay atomic.
type slotState struct {
	mu      sync.Mutex
	active  *model.Reservation
	waiting []*model.WaitingEntry // FIFO: index 0 is the head
}

// Ledger is the authoritative in-memory registry of all bookings. It
// maps slot keys to per-slot records and keeps reverse indexes from
// booking ids to slot keys so Cancel and Withdraw can find their slot
// without scanning.
//
// Locking: the ledger mutex guards the maps and the id counter only;
// slot records are guarded by their own mutex. The ledger mutex is
// never held while acquiring a slot mutex (slot lookup releases it
// first), so the nesting slot mutex -> ledger mutex cannot deadlock.
// No I/O ever happens inside either critical section.
type Ledger struct {
	mu        sync.RWMutex
	slots     map[model.SlotKey]*slotState
	resIndex  map[uint64]model.SlotKey // reservation id -> slot
	waitIndex map[uint64]model.SlotKey // waiting entry id -> slot
	nextID    uint64
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		slots:     make(map[model.SlotKey]*slotState),
		resIndex:  make(map[uint64]model.SlotKey),
		waitIndex: make(map[uint64]model.SlotKey),
	}
}

// Reset drops all bookings. It exists for test isolation; production
// code never calls it after startup.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.slots = make(map[model.SlotKey]*slotState)
	l.resIndex = make(map[uint64]model.SlotKey)
	l.waitIndex = make(map[uint64]model.SlotKey)
	l.nextID = 0
}

// slot returns the record for key, creating it if needed. The record
// outlives its bookings: an emptied slot keeps its state so a pointer
// held by a concurrent caller stays valid.
func (l *Ledger) slot(key model.SlotKey) *slotState {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slotState{}
		l.slots[key] = s
	}
	return s
}

// allocID hands out the next booking id and records it in the given
// index. Reservations and waiting entries share one id space so a
// promoted entry can keep its id.
func (l *Ledger) allocID(index map[uint64]model.SlotKey, key model.SlotKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	index[l.nextID] = key
	return l.nextID
}

// Book attempts to reserve the slot for the member. If the slot is
// free the member gets the active reservation; otherwise a waiting
// entry is appended at the tail and the entry's current rank is
// returned. A member already active or waiting on the slot gets
// ErrDuplicateBooking, never a silent merge. The existence check and
// the create happen in one critical section, so two racing calls on an
// empty slot yield exactly one Booked and one Waitlisted at rank 1.
func (l *Ledger) Book(key model.SlotKey, memberID uint64, memberName string) (BookingResult, error) {
	s := l.slot(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.MemberID == memberID {
		return BookingResult{}, ErrDuplicateBooking
	}
	for _, w := range s.waiting {
		if w.MemberID == memberID {
			return BookingResult{}, ErrDuplicateBooking
		}
	}

	now := time.Now().UTC()
	if s.active == nil {
		r := &model.Reservation{
			ID:         l.allocID(l.resIndex, key),
			Slot:       key,
			MemberID:   memberID,
			MemberName: memberName,
			CreatedAt:  now,
		}
		s.active = r
		out := *r
		return BookingResult{Outcome: OutcomeBooked, Reservation: &out}, nil
	}

	w := &model.WaitingEntry{
		ID:         l.allocID(l.waitIndex, key),
		Slot:       key,
		MemberID:   memberID,
		MemberName: memberName,
		EnqueuedAt: now,
	}
	s.waiting = append(s.waiting, w)
	out := *w
	return BookingResult{Outcome: OutcomeWaitlisted, Waiting: &out, Rank: len(s.waiting)}, nil
}

// Cancel removes the active reservation with the given id. Only the
// owner or an ADMIN may cancel. When the slot's waiting list is not
// empty, the head entry is promoted into the new active reservation in
// the same critical section: no concurrent reader can ever observe the
// slot empty in between. The promoted entry keeps its id but gets a
// fresh CreatedAt.
func (l *Ledger) Cancel(reservationID uint64, requester model.Principal) (CancelResult, error) {
	l.mu.RLock()
	key, ok := l.resIndex[reservationID]
	s := l.slots[key]
	l.mu.RUnlock()
	if !ok || s == nil {
		return CancelResult{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The reservation may have been cancelled between the index lookup
	// and taking the slot lock; the slot state is the truth.
	if s.active == nil || s.active.ID != reservationID {
		return CancelResult{}, ErrNotFound
	}
	if s.active.MemberID != requester.MemberID && !requester.IsAdmin() {
		return CancelResult{}, ErrForbidden
	}

	s.active = nil
	var promoted *model.Reservation
	if len(s.waiting) > 0 {
		head := s.waiting[0]
		s.waiting = append([]*model.WaitingEntry(nil), s.waiting[1:]...)
		promoted = &model.Reservation{
			ID:         head.ID,
			Slot:       key,
			MemberID:   head.MemberID,
			MemberName: head.MemberName,
			CreatedAt:  time.Now().UTC(),
		}
		s.active = promoted
	}

	l.mu.Lock()
	delete(l.resIndex, reservationID)
	if promoted != nil {
		delete(l.waitIndex, promoted.ID)
		l.resIndex[promoted.ID] = key
	}
	l.mu.Unlock()

	if promoted == nil {
		return CancelResult{}, nil
	}
	out := *promoted
	return CancelResult{Promoted: &out}, nil
}

// Withdraw removes a waiting entry. Only the owner or an ADMIN may
// withdraw it. Later entries shift down implicitly: rank is computed
// on read, so no renumbering step exists to get wrong.
func (l *Ledger) Withdraw(waitingID uint64, requester model.Principal) error {
	l.mu.RLock()
	key, ok := l.waitIndex[waitingID]
	s := l.slots[key]
	l.mu.RUnlock()
	if !ok || s == nil {
		return ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, w := range s.waiting {
		if w.ID == waitingID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Promoted or withdrawn since the index lookup.
		return ErrNotFound
	}
	if s.waiting[idx].MemberID != requester.MemberID && !requester.IsAdmin() {
		return ErrForbidden
	}
	s.waiting = append(s.waiting[:idx], s.waiting[idx+1:]...)

	l.mu.Lock()
	delete(l.waitIndex, waitingID)
	l.mu.Unlock()
	return nil
}

// snapshotSlots copies the current slot pointers so iteration does not
// hold the ledger mutex while slot mutexes are taken.
func (l *Ledger) snapshotSlots() []*slotState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*slotState, 0, len(l.slots))
	for _, s := range l.slots {
		out = append(out, s)
	}
	return out
}

// ActiveForMember returns copies of every active reservation held by
// the member, ordered by id.
func (l *Ledger) ActiveForMember(memberID uint64) []model.Reservation {
	var out []model.Reservation
	for _, s := range l.snapshotSlots() {
		s.mu.Lock()
		if s.active != nil && s.active.MemberID == memberID {
			out = append(out, *s.active)
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WaitingForMember returns the member's waiting entries together with
// their live ranks, ordered by id. Each slot is read in one critical
// section, so a rank can never reflect a half-applied promotion.
func (l *Ledger) WaitingForMember(memberID uint64) []WaitingPosition {
	var out []WaitingPosition
	for _, s := range l.snapshotSlots() {
		s.mu.Lock()
		for i, w := range s.waiting {
			if w.MemberID == memberID {
				out = append(out, WaitingPosition{Entry: *w, Rank: i + 1})
			}
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.ID < out[j].Entry.ID })
	return out
}

// AllActive returns every active reservation, ordered by id. Admin use.
func (l *Ledger) AllActive() []model.Reservation {
	var out []model.Reservation
	for _, s := range l.snapshotSlots() {
		s.mu.Lock()
		if s.active != nil {
			out = append(out, *s.active)
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllWaiting returns every waiting entry with its live rank, ordered
// by id. Admin use.
func (l *Ledger) AllWaiting() []WaitingPosition {
	var out []WaitingPosition
	for _, s := range l.snapshotSlots() {
		s.mu.Lock()
		for i, w := range s.waiting {
			out = append(out, WaitingPosition{Entry: *w, Rank: i + 1})
		}
		s.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.ID < out[j].Entry.ID })
	return out
}
