package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-reservation/internal/repository"
)

// CatalogHandler serves the public, read-only catalog listings. These
// routes sit behind the Redis response cache; the catalog changes
// rarely and guests browse it before logging in.
type CatalogHandler struct {
	Catalog repository.CatalogStore
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog repository.CatalogStore) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog}
}

type themeResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type timeSlotResp struct {
	ID      uint64 `json:"id"`
	StartAt string `json:"startAt"`
}

// GetThemes handles GET /themes.
func (h *CatalogHandler) GetThemes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	themes, err := h.Catalog.ListThemes(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list themes failed"})
	}
	out := make([]themeResp, 0, len(themes))
	for _, t := range themes {
		out = append(out, themeResp{ID: t.ID, Name: t.Name})
	}
	return c.JSON(http.StatusOK, out)
}

// GetTimes handles GET /times.
func (h *CatalogHandler) GetTimes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	times, err := h.Catalog.ListTimeSlots(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list times failed"})
	}
	out := make([]timeSlotResp, 0, len(times))
	for _, ts := range times {
		out = append(out, timeSlotResp{ID: ts.ID, StartAt: ts.StartAt})
	}
	return c.JSON(http.StatusOK, out)
}
