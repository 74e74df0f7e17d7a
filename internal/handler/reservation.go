package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/ledger"
	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/queue"
	"github.com/iliyamo/escape-room-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/escape-room-reservation/internal/service"
)

// ReservationHandler serves the booking endpoints. All methods assume
// the auth middleware already resolved a principal. The ledger is the
// single authority on booking state; the catalog only validates that
// the requested theme and time exist before a slot key is built.
type ReservationHandler struct {
	Ledger  *ledger.Ledger
	Catalog repository.CatalogStore
	// Publish emits a slot event after a ledger mutation committed.
	// Swappable so tests run without a broker.
	Publish func(ctx context.Context, ev queue.SlotEvent) error
}

// NewReservationHandler constructs a ReservationHandler wired to the
// RabbitMQ publisher.
func NewReservationHandler(l *ledger.Ledger, catalog repository.CatalogStore) *ReservationHandler {
	if l == nil || catalog == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Ledger: l, Catalog: catalog, Publish: queue_publisher.PublishSlotEvent}
}

// ----- DTOs -----

type bookingReq struct {
	Date  string `json:"date"`
	Time  flexID `json:"time"`
	Theme flexID `json:"theme"`
}

type bookingResp struct {
	ID     uint64 `json:"id"`
	Member string `json:"member"`
	Date   string `json:"date"`
	Time   uint64 `json:"time"`
	Theme  uint64 `json:"theme"`
	Status string `json:"status"`
	Rank   int    `json:"rank,omitempty"`
}

type myBookingResp struct {
	ReservationID uint64 `json:"reservationId"`
	Date          string `json:"date"`
	Time          uint64 `json:"time"`
	Theme         uint64 `json:"theme"`
	Status        string `json:"status"`
}

// parseSlot validates the request body against the catalog and builds
// the slot key. Validation failures are written to the response and
// reported via ok=false.
func (h *ReservationHandler) parseSlot(c echo.Context) (model.SlotKey, bool) {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
		return model.SlotKey{}, false
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		return model.SlotKey{}, false
	}
	if req.Time == 0 || req.Theme == 0 {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "time/theme required"})
		return model.SlotKey{}, false
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Catalog.TimeSlotByID(ctx, uint64(req.Time)); err != nil {
		if errors.Is(err, repository.ErrTimeSlotNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "time slot not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog lookup failed"})
		}
		return model.SlotKey{}, false
	}
	if _, err := h.Catalog.ThemeByID(ctx, uint64(req.Theme)); err != nil {
		if errors.Is(err, repository.ErrThemeNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog lookup failed"})
		}
		return model.SlotKey{}, false
	}
	return model.SlotKey{Date: req.Date, TimeID: uint64(req.Time), ThemeID: uint64(req.Theme)}, true
}

// book runs one booking attempt and renders the outcome. Both public
// booking endpoints share it: a reservation attempt on a taken slot
// waitlists the member, and an explicit waiting request on a free slot
// simply reserves it.
func (h *ReservationHandler) book(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	key, ok := h.parseSlot(c)
	if !ok {
		return nil
	}

	res, err := h.Ledger.Book(key, p.MemberID, p.Name)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateBooking) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already booked on this slot"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	resp := bookingResp{Member: p.Name, Date: key.Date, Time: key.TimeID, Theme: key.ThemeID}
	ev := queue.SlotEvent{
		MemberID:   p.MemberID,
		MemberName: p.Name,
		Date:       key.Date,
		TimeID:     key.TimeID,
		ThemeID:    key.ThemeID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	switch res.Outcome {
	case ledger.OutcomeBooked:
		resp.ID = res.Reservation.ID
		resp.Status = ledger.StatusReserved
		ev.Kind = queue.KindBooked
		ev.BookingID = res.Reservation.ID
	case ledger.OutcomeWaitlisted:
		resp.ID = res.Waiting.ID
		resp.Status = ledger.WaitingStatus(res.Rank)
		resp.Rank = res.Rank
		ev.Kind = queue.KindWaitlisted
		ev.BookingID = res.Waiting.ID
		ev.Rank = res.Rank
	}
	h.emit(ev)
	return c.JSON(http.StatusCreated, resp)
}

// CreateReservation handles POST /reservations.
func (h *ReservationHandler) CreateReservation(c echo.Context) error { return h.book(c) }

// CreateWaiting handles POST /waitings.
func (h *ReservationHandler) CreateWaiting(c echo.Context) error { return h.book(c) }

// Mine handles GET /reservations-mine. It returns the caller's
// bookings with their live display status: RESERVED for the active
// reservation, "<rank> waiting" for queued entries. The rank comes
// from the projector at request time, so cancellations and
// withdrawals elsewhere show up immediately.
func (h *ReservationHandler) Mine(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows := h.Ledger.ProjectMember(p.MemberID)
	out := make([]myBookingResp, 0, len(rows))
	for _, r := range rows {
		out = append(out, myBookingResp{
			ReservationID: r.ID,
			Date:          r.Slot.Date,
			Time:          r.Slot.TimeID,
			Theme:         r.Slot.ThemeID,
			Status:        r.Status,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// CancelReservation handles DELETE /reservations/:id. The ledger
// enforces ownership (owner or ADMIN); a successful cancel promotes
// the head of the waiting list in the same step.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	out, err := h.Ledger.Cancel(id, p)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, ledger.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if out.Promoted != nil {
		h.emit(queue.SlotEvent{
			Kind:       queue.KindPromoted,
			BookingID:  out.Promoted.ID,
			MemberID:   out.Promoted.MemberID,
			MemberName: out.Promoted.MemberName,
			Date:       out.Promoted.Slot.Date,
			TimeID:     out.Promoted.Slot.TimeID,
			ThemeID:    out.Promoted.Slot.ThemeID,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.NoContent(http.StatusNoContent)
}

// WithdrawWaiting handles DELETE /waitings/:id. Later entries move up
// implicitly because rank is computed on read.
func (h *ReservationHandler) WithdrawWaiting(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waiting id"})
	}

	if err := h.Ledger.Withdraw(id, p); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "waiting entry not found"})
		}
		if errors.Is(err, ledger.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "withdraw failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// emit publishes a slot event in the background. Publishing is best
// effort and never on the request's critical path.
func (h *ReservationHandler) emit(ev queue.SlotEvent) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
