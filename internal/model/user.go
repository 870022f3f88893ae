package model

import (
	"strings"
	"time"
)

// Role is the user type stored in users.role.  It is fixed at signup.
type Role string

const (
	RoleBuyer   Role = "BUYER"
	RoleRealtor Role = "REALTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole accepts a role name in any case and reports whether it is one
// of the known roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleBuyer, RoleRealtor, RoleAdmin:
		return r, true
	}
	return "", false
}

// Privileged reports whether signing up with this role needs a product key.
func (r Role) Privileged() bool { return r != RoleBuyer }

// User mirrors a row of the `users` table.  PasswordHash is a bcrypt digest
// and must never be serialized to clients.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique, lower-cased)
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         Role      // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Contact is the public subset of a user shown to other parties: a home's
// realtor to buyers, or a buyer to the realtor receiving an inquiry.
type Contact struct {
	ID    uint64 `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Identity is the verified content of a session token.
type Identity struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
