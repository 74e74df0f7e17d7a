package ledger_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-reservation/internal/ledger"
	"github.com/iliyamo/escape-room-reservation/internal/model"
)

func slot(date string, timeID, themeID uint64) model.SlotKey {
	return model.SlotKey{Date: date, TimeID: timeID, ThemeID: themeID}
}

func member(id uint64) model.Principal {
	return model.Principal{MemberID: id, Name: fmt.Sprintf("member-%d", id), Role: model.RoleMember}
}

func admin(id uint64) model.Principal {
	return model.Principal{MemberID: id, Name: "admin", Role: model.RoleAdmin}
}

func TestBookEmptySlot(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	res, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	require.Equal(t, ledger.OutcomeBooked, res.Outcome)
	require.NotNil(t, res.Reservation)
	assert.Nil(t, res.Waiting)
	assert.Equal(t, key, res.Reservation.Slot)
	assert.Equal(t, uint64(1), res.Reservation.MemberID)
	assert.Equal(t, "admin", res.Reservation.MemberName)
	assert.NotZero(t, res.Reservation.ID)
}

func TestBookTakenSlotWaitlists(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	_, err := l.Book(key, 1, "admin")
	require.NoError(t, err)

	res, err := l.Book(key, 2, "brown")
	require.NoError(t, err)
	require.Equal(t, ledger.OutcomeWaitlisted, res.Outcome)
	require.NotNil(t, res.Waiting)
	assert.Nil(t, res.Reservation)
	assert.Equal(t, 1, res.Rank)
	assert.Equal(t, uint64(2), res.Waiting.MemberID)

	res, err = l.Book(key, 3, "jason")
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeWaitlisted, res.Outcome)
	assert.Equal(t, 2, res.Rank)
}

func TestDuplicateBookingRejected(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	_, err := l.Book(key, 1, "admin")
	require.NoError(t, err)

	// Holder of the active reservation cannot book again.
	_, err = l.Book(key, 1, "admin")
	assert.ErrorIs(t, err, ledger.ErrDuplicateBooking)

	_, err = l.Book(key, 2, "brown")
	require.NoError(t, err)

	// A waiting member cannot enqueue twice either.
	_, err = l.Book(key, 2, "brown")
	assert.ErrorIs(t, err, ledger.ErrDuplicateBooking)

	// The same member may book the same time and theme on another date.
	_, err = l.Book(slot("2024-03-02", 1, 1), 1, "admin")
	assert.NoError(t, err)
}

func TestCancelPromotesHead(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	brown, err := l.Book(key, 2, "brown")
	require.NoError(t, err)
	jason, err := l.Book(key, 3, "jason")
	require.NoError(t, err)

	out, err := l.Cancel(booked.Reservation.ID, member(1))
	require.NoError(t, err)
	require.NotNil(t, out.Promoted)

	// The former head holds the slot now and kept its id.
	assert.Equal(t, uint64(2), out.Promoted.MemberID)
	assert.Equal(t, brown.Waiting.ID, out.Promoted.ID)
	assert.Empty(t, l.WaitingForMember(2))

	active := l.ActiveForMember(2)
	require.Len(t, active, 1)
	assert.Equal(t, key, active[0].Slot)

	// Everyone behind the promoted entry moved up by exactly one.
	waiting := l.WaitingForMember(3)
	require.Len(t, waiting, 1)
	assert.Equal(t, 1, waiting[0].Rank)
	assert.Equal(t, jason.Waiting.ID, waiting[0].Entry.ID)
}

func TestCancelWithoutWaitersFreesSlot(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)

	out, err := l.Cancel(booked.Reservation.ID, member(1))
	require.NoError(t, err)
	assert.Nil(t, out.Promoted)
	assert.Empty(t, l.AllActive())

	// The slot is bookable again.
	res, err := l.Book(key, 2, "brown")
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeBooked, res.Outcome)
}

func TestCancelOwnership(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)

	_, err = l.Cancel(booked.Reservation.ID, member(2))
	assert.ErrorIs(t, err, ledger.ErrForbidden)
	require.Len(t, l.AllActive(), 1)

	// An admin may cancel anyone's reservation.
	_, err = l.Cancel(booked.Reservation.ID, admin(99))
	assert.NoError(t, err)
	assert.Empty(t, l.AllActive())
}

func TestCancelUnknownReservation(t *testing.T) {
	l := ledger.New()
	_, err := l.Cancel(42, member(1))
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	key := slot("2024-03-01", 1, 1)
	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	_, err = l.Cancel(booked.Reservation.ID, member(1))
	require.NoError(t, err)

	// Cancelling twice finds nothing the second time.
	_, err = l.Cancel(booked.Reservation.ID, member(1))
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestWithdrawShiftsRanks(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	_, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	first, err := l.Book(key, 2, "brown")
	require.NoError(t, err)
	second, err := l.Book(key, 3, "jason")
	require.NoError(t, err)
	third, err := l.Book(key, 4, "lisa")
	require.NoError(t, err)
	require.Equal(t, 3, third.Rank)

	require.NoError(t, l.Withdraw(first.Waiting.ID, member(2)))
	require.NoError(t, l.Withdraw(second.Waiting.ID, member(3)))

	waiting := l.WaitingForMember(4)
	require.Len(t, waiting, 1)
	assert.Equal(t, 1, waiting[0].Rank)
	assert.Equal(t, third.Waiting.ID, waiting[0].Entry.ID)
}

func TestWithdrawOwnership(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	_, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	w, err := l.Book(key, 2, "brown")
	require.NoError(t, err)

	assert.ErrorIs(t, l.Withdraw(w.Waiting.ID, member(3)), ledger.ErrForbidden)
	assert.NoError(t, l.Withdraw(w.Waiting.ID, admin(99)))
	assert.ErrorIs(t, l.Withdraw(w.Waiting.ID, member(2)), ledger.ErrNotFound)
}

func TestWithdrawPromotedEntryNotFound(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	w, err := l.Book(key, 2, "brown")
	require.NoError(t, err)

	_, err = l.Cancel(booked.Reservation.ID, member(1))
	require.NoError(t, err)

	// The entry became a reservation; it can no longer be withdrawn.
	assert.ErrorIs(t, l.Withdraw(w.Waiting.ID, member(2)), ledger.ErrNotFound)
}

func TestConcurrentBookingSingleActive(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)
	const members = 32

	results := make([]ledger.BookingResult, members)
	var wg sync.WaitGroup
	for i := 0; i < members; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := l.Book(key, uint64(i+1), fmt.Sprintf("member-%d", i+1))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	booked := 0
	ranks := make(map[int]bool)
	for _, res := range results {
		switch res.Outcome {
		case ledger.OutcomeBooked:
			booked++
		case ledger.OutcomeWaitlisted:
			assert.False(t, ranks[res.Rank], "rank %d observed twice", res.Rank)
			ranks[res.Rank] = true
		}
	}
	assert.Equal(t, 1, booked, "exactly one booking must win the slot")
	assert.Len(t, l.AllActive(), 1)
	assert.Len(t, l.AllWaiting(), members-1)
}

func TestConcurrentIndependentSlots(t *testing.T) {
	l := ledger.New()
	const slots = 16

	var wg sync.WaitGroup
	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := l.Book(slot("2024-03-01", uint64(i+1), 1), 1, "admin")
			assert.NoError(t, err)
			assert.Equal(t, ledger.OutcomeBooked, res.Outcome)
		}(i)
	}
	wg.Wait()

	assert.Len(t, l.ActiveForMember(1), slots)
}

func TestConcurrentCancelSingleWinner(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	booked, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	_, err = l.Book(key, 2, "brown")
	require.NoError(t, err)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.Cancel(booked.Reservation.ID, member(1))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ledger.ErrNotFound)
		}
	}
	assert.Equal(t, 1, ok, "exactly one cancel must succeed")

	// The waiter was promoted exactly once.
	require.Len(t, l.AllActive(), 1)
	assert.Equal(t, uint64(2), l.AllActive()[0].MemberID)
	assert.Empty(t, l.AllWaiting())
}

func TestReset(t *testing.T) {
	l := ledger.New()
	key := slot("2024-03-01", 1, 1)

	_, err := l.Book(key, 1, "admin")
	require.NoError(t, err)
	_, err = l.Book(key, 2, "brown")
	require.NoError(t, err)

	l.Reset()
	assert.Empty(t, l.AllActive())
	assert.Empty(t, l.AllWaiting())

	res, err := l.Book(key, 2, "brown")
	require.NoError(t, err)
	assert.Equal(t, ledger.OutcomeBooked, res.Outcome)
}
