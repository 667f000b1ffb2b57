package service

import (
	"errors"
	"time"

	"passport/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel errors for session token validation.
var (
	// ErrTokenMalformed is returned when the token string is not a JWT.
	ErrTokenMalformed = errors.New("session token is malformed")

	// ErrTokenSignatureInvalid is returned when the signature does not verify.
	ErrTokenSignatureInvalid = errors.New("session token signature is invalid")

	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("session token has expired")
)

// SessionClaims defines the custom claims embedded in session JWTs.
type SessionClaims struct {
	UserID uuid.UUID
	Role   entity.Role
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating session JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// IssueSessionToken creates a signed session token for a given user.
	IssueSessionToken(userID uuid.UUID, role entity.Role) (string, error)

	// ValidateSessionToken checks the validity of a token string and
	// returns its claims. Invalid tokens map to the sentinel errors above.
	ValidateSessionToken(tokenString string) (*SessionClaims, error)

	// SessionTokenDuration returns the configured session lifetime.
	SessionTokenDuration() time.Duration
}
