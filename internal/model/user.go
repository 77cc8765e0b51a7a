package model

import "time"

// Roles carried in the JWT "role" claim.  Administrators manage the
// catalog and screenings and perform venue check-in; regular users
// book and cancel their own tickets.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account in the system.  Only the bcrypt hash of the
// password is ever stored.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"` // unique
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Actor is the authenticated requester of an operation.  Every core
// operation takes the actor explicitly; there is no ambient
// current-user context.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanActOn reports whether the actor may operate on a resource owned
// by ownerID: owners and administrators may.
func (a Actor) CanActOn(ownerID uint64) bool {
	return a.ID == ownerID || a.IsAdmin()
}
