// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose identifies what a verification token authorizes once consumed.
type TokenPurpose string

const (
	// PurposeEmailVerification marks tokens that confirm email ownership.
	PurposeEmailVerification TokenPurpose = "email_verification"
	// PurposePasswordReset marks tokens that authorize a password reset.
	PurposePasswordReset TokenPurpose = "password_reset"
)

// String returns the string representation of the TokenPurpose.
func (p TokenPurpose) String() string {
	return string(p)
}

// IsValid checks if the TokenPurpose is a valid value.
func (p TokenPurpose) IsValid() bool {
	switch p {
	case PurposeEmailVerification, PurposePasswordReset:
		return true
	default:
		return false
	}
}

// VerificationToken represents a single-use, time-limited token delivered to a
// user out of band. A user holds at most one live token per purpose; issuing a
// new one supersedes the previous token.
type VerificationToken struct {
	ID         uuid.UUID    // The unique ID for this token record.
	UserID     uuid.UUID    // Links this token to the User it belongs to.
	Purpose    TokenPurpose // What consuming this token authorizes.
	Token      string       // The opaque token value embedded in the emailed link.
	ExpiresAt  time.Time    // The exact time after which this token can no longer be consumed.
	ConsumedAt *time.Time   // When the token was consumed. Nil while the token is live.
	CreatedAt  time.Time    // Timestamp of when this token was issued.
}

// Consumed reports whether the token has already been used.
func (t *VerificationToken) Consumed() bool {
	return t.ConsumedAt != nil
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
