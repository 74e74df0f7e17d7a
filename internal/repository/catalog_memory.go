package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/escape-room-reservation/internal/model"
)

// MemoryCatalogStore is an in-memory CatalogStore used by tests and
// database-less deployments.
type MemoryCatalogStore struct {
	mu     sync.RWMutex
	themes map[uint64]model.Theme
	times  map[uint64]model.TimeSlot
}

// NewSeededCatalogStore returns an in-memory catalog preloaded with
// the default escape rooms and the standard start times.
func NewSeededCatalogStore() *MemoryCatalogStore {
	s := &MemoryCatalogStore{
		themes: make(map[uint64]model.Theme),
		times:  make(map[uint64]model.TimeSlot),
	}
	for _, t := range []model.Theme{
		{ID: 1, Name: "Horror Mansion"},
		{ID: 2, Name: "Space Station"},
	} {
		s.themes[t.ID] = t
	}
	for _, ts := range []model.TimeSlot{
		{ID: 1, StartAt: "10:00"},
		{ID: 2, StartAt: "13:00"},
		{ID: 3, StartAt: "16:00"},
		{ID: 4, StartAt: "19:00"},
	} {
		s.times[ts.ID] = ts
	}
	return s
}

// ThemeByID fetches a theme by id.
func (s *MemoryCatalogStore) ThemeByID(_ context.Context, id uint64) (model.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.themes[id]
	if !ok {
		return model.Theme{}, ErrThemeNotFound
	}
	return t, nil
}

// TimeSlotByID fetches a time slot by id.
func (s *MemoryCatalogStore) TimeSlotByID(_ context.Context, id uint64) (model.TimeSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.times[id]
	if !ok {
		return model.TimeSlot{}, ErrTimeSlotNotFound
	}
	return ts, nil
}

// ListThemes returns all themes ordered by id.
func (s *MemoryCatalogStore) ListThemes(_ context.Context) ([]model.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Theme, 0, len(s.themes))
	for _, t := range s.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListTimeSlots returns all time slots ordered by id.
func (s *MemoryCatalogStore) ListTimeSlots(_ context.Context) ([]model.TimeSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TimeSlot, 0, len(s.times))
	for _, ts := range s.times {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
