// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// VerifyEmailInput carries the opaque token from the emailed link.
type VerifyEmailInput struct {
	Token string
}

// ForgotPasswordInput identifies the account requesting a password reset.
type ForgotPasswordInput struct {
	Email string
}

// ResetPasswordInput carries the reset token and the new password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the session token after a successful login.
type LoginOutput struct {
	SessionToken string
	User         *entity.User
}

// VerifyEmailOutput returns the user whose email was confirmed.
type VerifyEmailOutput struct {
	User *entity.User
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (e.g., HTTP handlers) will depend on.
type AccountUsecase interface {
	// Register creates a new account, stores the hashed password and sends
	// a verification email. Duplicate emails are rejected.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login checks the credentials and issues a session token. Unknown
	// emails and wrong passwords yield the same error.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// VerifyEmail consumes a verification token and marks the account verified.
	VerifyEmail(ctx context.Context, input *VerifyEmailInput) (*VerifyEmailOutput, error)

	// ForgotPassword issues a password reset token and emails it to the
	// account. Unknown emails succeed silently to avoid account enumeration.
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error

	// ResetPassword consumes a reset token and replaces the account password.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// VerificationLink builds the absolute verification URL embedded in
	// emails and QR codes for a raw token value.
	VerificationLink(token string) string
}
