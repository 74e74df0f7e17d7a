package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/ledger"
)

// AdminHandler serves the admin-only surface. Role enforcement happens
// in the guard middleware; these handlers only read the ledger.
type AdminHandler struct {
	Ledger *ledger.Ledger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(l *ledger.Ledger) *AdminHandler {
	return &AdminHandler{Ledger: l}
}

type adminReservationResp struct {
	ID     uint64 `json:"id"`
	Member string `json:"member"`
	Date   string `json:"date"`
	Time   uint64 `json:"time"`
	Theme  uint64 `json:"theme"`
}

type adminWaitingResp struct {
	ID     uint64 `json:"id"`
	Member string `json:"member"`
	Date   string `json:"date"`
	Time   uint64 `json:"time"`
	Theme  uint64 `json:"theme"`
	Rank   int    `json:"rank"`
}

// Panel handles GET /admin. Reaching it at all proves the caller holds
// VIEW_ADMIN_PANEL, so a summary is enough.
func (h *AdminHandler) Panel(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"reservations": len(h.Ledger.AllActive()),
		"waitings":     len(h.Ledger.AllWaiting()),
	})
}

// Reservations handles GET /admin/reservations: every active
// reservation across all slots.
func (h *AdminHandler) Reservations(c echo.Context) error {
	active := h.Ledger.AllActive()
	out := make([]adminReservationResp, 0, len(active))
	for _, r := range active {
		out = append(out, adminReservationResp{
			ID:     r.ID,
			Member: r.MemberName,
			Date:   r.Slot.Date,
			Time:   r.Slot.TimeID,
			Theme:  r.Slot.ThemeID,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Waitings handles GET /admin/waitings: every waiting entry with its
// rank at read time.
func (h *AdminHandler) Waitings(c echo.Context) error {
	waiting := h.Ledger.AllWaiting()
	out := make([]adminWaitingResp, 0, len(waiting))
	for _, w := range waiting {
		out = append(out, adminWaitingResp{
			ID:     w.Entry.ID,
			Member: w.Entry.MemberName,
			Date:   w.Entry.Slot.Date,
			Time:   w.Entry.Slot.TimeID,
			Theme:  w.Entry.Slot.ThemeID,
			Rank:   w.Rank,
		})
	}
	return c.JSON(http.StatusOK, out)
}
