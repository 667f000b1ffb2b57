// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import (
	"context"
	"errors"
)

// Sentinel errors for password hashing. Callers match on these with errors.Is.
var (
	// ErrEmptyPassword is returned when the plaintext password is empty.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrPasswordTooLong is returned when the plaintext exceeds the maximum length.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")

	// ErrHashingFailed is returned when the hash computation itself fails.
	ErrHashingFailed = errors.New("password hashing failed")

	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
)

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (Argon2id), keeping the domain pure.
// Hashing is memory-hard, so implementations bound concurrency and honor
// context cancellation while waiting for a slot.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with an encoded hash.
	// It returns true only when the password matches. A malformed stored
	// hash yields ErrMalformedHash.
	Check(ctx context.Context, password, encodedHash string) (bool, error)
}
