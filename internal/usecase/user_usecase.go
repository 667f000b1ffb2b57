package usecase

import (
	"context"

	"passport/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListUsersInput defines pagination parameters for the user listing.
type ListUsersInput struct {
	Page  int
	Limit int
}

// UpdateNameInput carries a user's new display name.
type UpdateNameInput struct {
	UserID uuid.UUID
	Name   string
}

// UpdatePasswordInput carries a password change for a logged-in user.
type UpdatePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// UpdateRoleInput carries an administrative role change.
type UpdateRoleInput struct {
	UserID uuid.UUID
	Role   entity.Role
}

// --- Output DTOs ---

// ListUsersOutput returns a page of users plus the total count.
type ListUsersOutput struct {
	Users []*entity.User
	Total int64
	Page  int
	Limit int
}

// UserUsecase defines the interface for user management operations.
type UserUsecase interface {
	// GetUser retrieves a single user by ID.
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// ListUsers retrieves a page of users ordered by creation time, newest first.
	ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error)

	// UpdateName changes a user's display name.
	UpdateName(ctx context.Context, input *UpdateNameInput) (*entity.User, error)

	// UpdatePassword changes a user's password after checking the current one.
	UpdatePassword(ctx context.Context, input *UpdatePasswordInput) error

	// UpdateRole changes a user's role. Intended for administrators.
	UpdateRole(ctx context.Context, input *UpdateRoleInput) (*entity.User, error)
}
