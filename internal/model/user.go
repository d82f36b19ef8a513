// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is a user's authorisation level. Only two levels exist: regular
// customers and fleet administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account that can sign in to the site.
//
// WHY IS PasswordHash TAGGED `json:"-"`?
// The admin console lists users, so User gets serialized to JSON regularly.
// The `-` tag tells encoding/json to NEVER include the field — the bcrypt
// hash must not leave the server, even though a hash isn't directly
// reversible. Defence in depth costs one character here.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
