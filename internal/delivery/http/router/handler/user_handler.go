package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"passport/internal/delivery/http/response"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUC usecase.UserUsecase
	Logger *slog.Logger
}

// UserHandler holds dependencies for user profile handlers.
type UserHandler struct {
	userUC usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		userUC: params.UserUC,
		logger: params.Logger,
	}
}

// UpdateNameRequest represents the request body for renaming the account.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdatePasswordRequest represents the request body for changing the password.
type UpdatePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8,max=128"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// UpdateRoleRequest represents the request body for changing a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.GetUser(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user))
}

// UpdateName changes the authenticated user's display name.
func (h *UserHandler) UpdateName(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid name input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.UpdateName(c.Request().Context(), &usecase.UpdateNameInput{
		UserID: userID,
		Name:   req.Name,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user))
}

// UpdatePassword changes the authenticated user's password. The current
// password must be provided again.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	userID, err := h.getUserID(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.UpdatePasswordInput{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.userUC.UpdatePassword(c.Request().Context(), input); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password updated"})
}

// ListUsers returns a page of users. Admin only.
func (h *UserHandler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	output, err := h.userUC.ListUsers(c.Request().Context(), &usecase.ListUsersInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	users := make([]*UserResponse, 0, len(output.Users))
	for _, user := range output.Users {
		users = append(users, NewUserResponse(user))
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"users": users,
		"total": output.Total,
		"page":  output.Page,
		"limit": output.Limit,
	})
}

// UpdateRole changes another user's role. Admin only.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user ID")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}
	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.userUC.UpdateRole(c.Request().Context(), &usecase.UpdateRoleInput{
		UserID: targetID,
		Role:   entity.RoleFromString(req.Role),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, NewUserResponse(user))
}

// getUserID extracts the authenticated user ID set by the auth middleware.
func (h *UserHandler) getUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrSessionTokenInvalid
	}

	return userID, nil
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
