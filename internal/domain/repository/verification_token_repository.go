package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// ErrVerificationTokenNotFound is returned when no token matches the lookup.
var ErrVerificationTokenNotFound = errors.New("verification token not found")

// VerificationTokenRepository defines persistence operations for single-use
// verification tokens.
type VerificationTokenRepository interface {
	// Upsert stores the token, replacing any existing live token for the
	// same user and purpose. A user holds at most one token per purpose.
	Upsert(ctx context.Context, token *entity.VerificationToken) error

	// FindByTokenForUpdate retrieves a token by its opaque value, locking
	// the row for the duration of the surrounding transaction.
	FindByTokenForUpdate(ctx context.Context, token string) (*entity.VerificationToken, error)

	// MarkConsumed records the consumption time of a token.
	MarkConsumed(ctx context.Context, token *entity.VerificationToken) error
}
