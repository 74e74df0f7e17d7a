package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// CatalogStore provides read access to the slot catalog: which themes
// exist and which start times are reservable. Slots themselves are
// derived keys (date + time + theme) and are never stored; the catalog
// only answers whether the referenced ids exist. Catalog management is
// out of scope, so the interface is read-only.
type CatalogStore interface {
	// ThemeByID fetches a theme. Fails with ErrThemeNotFound.
	ThemeByID(ctx context.Context, id uint64) (model.Theme, error)
	// TimeSlotByID fetches a time slot. Fails with ErrTimeSlotNotFound.
	TimeSlotByID(ctx context.Context, id uint64) (model.TimeSlot, error)
	// ListThemes returns all themes ordered by id.
	ListThemes(ctx context.Context) ([]model.Theme, error)
	// ListTimeSlots returns all time slots ordered by id.
	ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error)
}

// CatalogRepo is the MySQL-backed CatalogStore over the `themes` and
// `time_slots` tables.
type CatalogRepo struct{ DB *sql.DB }

// NewCatalogRepo returns a CatalogRepo bound to the provided database.
func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// ThemeByID fetches a theme by id.
func (r *CatalogRepo) ThemeByID(ctx context.Context, id uint64) (model.Theme, error) {
	var t model.Theme
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name FROM themes WHERE id=? LIMIT 1", id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return model.Theme{}, ErrThemeNotFound
	}
	return t, err
}

// TimeSlotByID fetches a time slot by id.
func (r *CatalogRepo) TimeSlotByID(ctx context.Context, id uint64) (model.TimeSlot, error) {
	var ts model.TimeSlot
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,start_at FROM time_slots WHERE id=? LIMIT 1", id).Scan(&ts.ID, &ts.StartAt)
	if err == sql.ErrNoRows {
		return model.TimeSlot{}, ErrTimeSlotNotFound
	}
	return ts, err
}

// ListThemes returns all themes ordered by id.
func (r *CatalogRepo) ListThemes(ctx context.Context) ([]model.Theme, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM themes ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Theme
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTimeSlots returns all time slots ordered by id.
func (r *CatalogRepo) ListTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,start_at FROM time_slots ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.TimeSlot
	for rows.Next() {
		var ts model.TimeSlot
		if err := rows.Scan(&ts.ID, &ts.StartAt); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
