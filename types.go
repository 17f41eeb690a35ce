package eventauth

import (
	"context"
	"time"
)

// Role is the principal role carried inside every session token.
type Role string

const (
	// RoleAttendee can browse events and manage its own registrations.
	RoleAttendee Role = "attendee"
	// RoleOrganizer can additionally create and manage events.
	RoleOrganizer Role = "organizer"
)

// Valid reports whether r is one of the two platform roles.
func (r Role) Valid() bool {
	return r == RoleAttendee || r == RoleOrganizer
}

// UserRecord is the minimal account record the engine consumes. Credential
// verification happens upstream; the engine only needs identity and role.
type UserRecord struct {
	ID       string
	Username string
	Role     Role
}

// UserProvider is the interface callers implement to connect the engine to
// their user database. Implementations must be safe for concurrent use.
type UserProvider interface {
	GetUserByID(ctx context.Context, id string) (UserRecord, error)
}

// AuthResult is returned by [Engine.Validate]: the verified principal plus
// the token metadata the caller may need for auditing or revocation.
type AuthResult struct {
	UserID   string
	Username string
	Role     Role

	TokenID   string
	ExpiresAt time.Time
}

// Organizer reports whether the validated principal holds the organizer role.
func (r *AuthResult) Organizer() bool {
	return r != nil && r.Role == RoleOrganizer
}
