// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single account.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Email        string    // The user's email, used as the login identifier.
	Name         string    // The user's display name.
	PasswordHash string    // The encoded Argon2id hash of the user's password.
	Role         Role      // The user's role within the system.
	Verified     bool      // Whether the user has confirmed ownership of their email.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}
