package domain

import "time"

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleRider  Role = "rider"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role, in declaration order.
var Roles = []Role{RoleClient, RoleVendor, RoleRider, RoleAdmin}

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is the persistent identity record. PasswordHash is never the
// plaintext password and is never serialized outward.
type User struct {
	ID           string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
