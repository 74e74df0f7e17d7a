package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/escape-room-reservation/internal/model"
	"github.com/iliyamo/escape-room-reservation/internal/utils"
)

// MemberStore abstracts member persistence so the HTTP layer does not
// care whether members live in MySQL or in memory. The MySQL
// implementation backs the running server; the in-memory one backs
// tests and ships the default seed accounts.
type MemberStore interface {
	// Create inserts a member and returns its id. Fails with
	// ErrEmailExists when the email is taken.
	Create(ctx context.Context, email, password, name, role string, cost int) (uint64, error)
	// GetByEmail fetches a member by normalized email. Fails with
	// ErrMemberNotFound when no row matches.
	GetByEmail(ctx context.Context, email string) (model.Member, error)
	// GetByID fetches a member by id. Fails with ErrMemberNotFound
	// when no row matches.
	GetByID(ctx context.Context, id uint64) (model.Member, error)
}

// MemberRepo is the MySQL-backed MemberStore over the `members` table.
type MemberRepo struct{ DB *sql.DB }

// NewMemberRepo returns a MemberRepo bound to the provided database.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

// Create inserts a member and returns its id.
func (r *MemberRepo) Create(ctx context.Context, email, password, name, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO members (email, password_hash, name, role) VALUES (?,?,?,?)",
		email, hash, name, role)
	if err != nil {
		// 1062 is the MySQL duplicate-key error.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a member by normalized email.
func (r *MemberRepo) GetByEmail(ctx context.Context, email string) (model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var m model.Member
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,created_at FROM members WHERE email=? LIMIT 1",
		email).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.Role, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrMemberNotFound
	}
	return m, err
}

// GetByID fetches a member by id.
func (r *MemberRepo) GetByID(ctx context.Context, id uint64) (model.Member, error) {
	var m model.Member
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,name,role,created_at FROM members WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.Role, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Member{}, ErrMemberNotFound
	}
	return m, err
}
