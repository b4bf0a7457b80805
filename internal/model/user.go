package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles stored in users.role and carried in the JWT "role" claim.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleOrganizer  = "ORGANIZER"
	RoleStudent    = "STUDENT"
)

// Address is the postal address denormalized onto users, stadiums and
// general events.
type Address struct {
	Line1   string `json:"address_line1"`
	Line2   string `json:"address_line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// User represents a row of the `users` table.
//
// Fields:
//
//	ID           – random UUID primary key.
//	Name         – display name.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash, never serialized.
//	Role         – one of the Role* constants.
//	IsActive     – inactive users cannot log in.
//	ResetToken   – pending numeric password reset token, empty when none.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	Address      Address   `json:"address"`
	ResetToken   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStaff reports whether the user administers the platform.
func (u User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleSuperAdmin }
