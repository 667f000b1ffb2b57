package handler

import (
	"net/http"
	"testing"

	"passport/internal/delivery/http/validator"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	mockUC "passport/internal/mocks/usecase"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userHandlerFixtures struct {
	handler *UserHandler
	userUC  *mockUC.MockUserUsecase
	echo    *echo.Echo
}

func createTestUserHandler(t *testing.T) userHandlerFixtures {
	userUC := mockUC.NewMockUserUsecase(t)

	e := echo.New()
	e.Validator = validator.New()

	return userHandlerFixtures{
		handler: NewUserHandler(UserHandlerParams{
			UserUC: userUC,
			Logger: newDiscardLogger(),
		}),
		userUC: userUC,
		echo:   e,
	}
}

func TestUserHandler_GetMe_Success(t *testing.T) {
	fixtures := createTestUserHandler(t)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", Name: "Test User"}
	fixtures.userUC.On("GetUser", mock.Anything, user.ID).Return(user, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/users/me", "")
	c.Set("userID", user.ID)

	require.NoError(t, fixtures.handler.GetMe(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test@example.com")
}

func TestUserHandler_GetMe_MissingUserID(t *testing.T) {
	fixtures := createTestUserHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/users/me", "")

	require.NoError(t, fixtures.handler.GetMe(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_UpdateName_Success(t *testing.T) {
	fixtures := createTestUserHandler(t)

	userID := uuid.New()
	updated := &entity.User{ID: userID, Name: "New Name"}
	fixtures.userUC.On("UpdateName", mock.Anything, &usecase.UpdateNameInput{
		UserID: userID,
		Name:   "New Name",
	}).Return(updated, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/me/name", `{"name":"New Name"}`)
	c.Set("userID", userID)

	require.NoError(t, fixtures.handler.UpdateName(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Name")
}

func TestUserHandler_UpdateName_EmptyName(t *testing.T) {
	fixtures := createTestUserHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/me/name", `{"name":""}`)
	c.Set("userID", uuid.New())

	require.NoError(t, fixtures.handler.UpdateName(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestUserHandler_UpdatePassword_Success(t *testing.T) {
	fixtures := createTestUserHandler(t)

	userID := uuid.New()
	fixtures.userUC.On("UpdatePassword", mock.Anything, &usecase.UpdatePasswordInput{
		UserID:          userID,
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	}).Return(nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/me/password",
		`{"current_password":"old-password","new_password":"new-password","new_password_confirm":"new-password"}`)
	c.Set("userID", userID)

	require.NoError(t, fixtures.handler.UpdatePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUserHandler_UpdatePassword_WrongCurrent(t *testing.T) {
	fixtures := createTestUserHandler(t)

	fixtures.userUC.On("UpdatePassword", mock.Anything, mock.AnythingOfType("*usecase.UpdatePasswordInput")).
		Return(domainerrors.ErrInvalidCredentials)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/me/password",
		`{"current_password":"wrong-password","new_password":"new-password","new_password_confirm":"new-password"}`)
	c.Set("userID", uuid.New())

	require.NoError(t, fixtures.handler.UpdatePassword(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestUserHandler_ListUsers_Success(t *testing.T) {
	fixtures := createTestUserHandler(t)

	users := []*entity.User{
		{ID: uuid.New(), Email: "a@example.com"},
		{ID: uuid.New(), Email: "b@example.com"},
	}
	fixtures.userUC.On("ListUsers", mock.Anything, &usecase.ListUsersInput{Page: 2, Limit: 10}).
		Return(&usecase.ListUsersOutput{Users: users, Total: 12, Page: 2, Limit: 10}, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/users?page=2&limit=10", "")

	require.NoError(t, fixtures.handler.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":12`)
	assert.Contains(t, rec.Body.String(), "a@example.com")
}

func TestUserHandler_UpdateRole_Success(t *testing.T) {
	fixtures := createTestUserHandler(t)

	targetID := uuid.New()
	updated := &entity.User{ID: targetID, Role: entity.RoleAdmin}
	fixtures.userUC.On("UpdateRole", mock.Anything, &usecase.UpdateRoleInput{
		UserID: targetID,
		Role:   entity.RoleAdmin,
	}).Return(updated, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/"+targetID.String()+"/role",
		`{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues(targetID.String())

	require.NoError(t, fixtures.handler.UpdateRole(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestUserHandler_UpdateRole_InvalidID(t *testing.T) {
	fixtures := createTestUserHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/not-a-uuid/role", `{"role":"admin"}`)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	require.NoError(t, fixtures.handler.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_ID")
}

func TestUserHandler_UpdateRole_UnknownRole(t *testing.T) {
	fixtures := createTestUserHandler(t)

	targetID := uuid.New()
	c, rec := newJSONContext(fixtures.echo, http.MethodPut, "/users/"+targetID.String()+"/role",
		`{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues(targetID.String())

	require.NoError(t, fixtures.handler.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	c, rec := newJSONContext(e, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
