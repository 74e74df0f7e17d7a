package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/utils"
)

// MemoryMemberStore is an in-memory MemberStore. It backs the test
// suite and any deployment that runs without a database. Member
// storage is a collaborator behind the interface, so swapping the
// engine never touches the booking core.
type MemoryMemberStore struct {
	mu      sync.RWMutex
	byID    map[uint64]model.Member
	byEmail map[string]uint64
	nextID  uint64
}

// NewMemoryMemberStore returns an empty in-memory store.
func NewMemoryMemberStore() *MemoryMemberStore {
	return &MemoryMemberStore{
		byID:    make(map[uint64]model.Member),
		byEmail: make(map[string]uint64),
	}
}

// NewSeededMemberStore returns an in-memory store preloaded with the
// default accounts: admin@email.com (role ADMIN) and brown@email.com
// (role MEMBER), both with password "password".
func NewSeededMemberStore(cost int) (*MemoryMemberStore, error) {
	s := NewMemoryMemberStore()
	ctx := context.Background()
	if _, err := s.Create(ctx, "admin@email.com", "password", "admin", model.RoleAdmin, cost); err != nil {
		return nil, err
	}
	if _, err := s.Create(ctx, "brown@email.com", "password", "brown", model.RoleMember, cost); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a member and returns its id.
func (s *MemoryMemberStore) Create(_ context.Context, email, password, name, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return 0, ErrEmailExists
	}
	s.nextID++
	m := model.Member{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[m.ID] = m
	s.byEmail[email] = m.ID
	return m.ID, nil
}

// GetByEmail fetches a member by normalized email.
func (s *MemoryMemberStore) GetByEmail(_ context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return model.Member{}, ErrMemberNotFound
	}
	return s.byID[id], nil
}

// GetByID fetches a member by id.
func (s *MemoryMemberStore) GetByID(_ context.Context, id uint64) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return model.Member{}, ErrMemberNotFound
	}
	return m, nil
}
