package model

import "time"

// Role names stored in the `members` table and carried in the token's
// "role" claim. ADMIN is granted every capability; MEMBER only acts on
// resources it owns.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Member represents an application member record as stored in the
// `members` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the member.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name shown on bookings.
//  Role         – role name (MEMBER or ADMIN).
//  CreatedAt    – timestamp of creation.
type Member struct {
	ID           uint64    // members.id
	Email        string    // members.email
	PasswordHash string    // members.password_hash
	Name         string    // members.name
	Role         string    // members.role
	CreatedAt    time.Time // members.created_at
}

// Principal is the authenticated identity derived from a request's
// token. It is re-derived on every request and never cached across
// requests; the booking core depends only on the fields carried here,
// never on the token itself.
type Principal struct {
	MemberID uint64 // token "sub" claim
	Name     string // token "name" claim
	Role     string // token "role" claim (MEMBER or ADMIN)
}

// IsAdmin reports whether the principal carries the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
