package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"passport/internal/delivery/http/validator"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	mockSvc "passport/internal/mocks/service"
	mockUC "passport/internal/mocks/usecase"
	"passport/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accountHandlerFixtures struct {
	handler   *AccountHandler
	accountUC *mockUC.MockAccountUsecase
	tokenSvc  *mockSvc.MockTokenService
	qrcodeSvc *mockSvc.MockQRCodeService
	echo      *echo.Echo
}

func createTestAccountHandler(t *testing.T) accountHandlerFixtures {
	accountUC := mockUC.NewMockAccountUsecase(t)
	tokenSvc := mockSvc.NewMockTokenService(t)
	qrcodeSvc := mockSvc.NewMockQRCodeService(t)

	e := echo.New()
	e.Validator = validator.New()

	return accountHandlerFixtures{
		handler: NewAccountHandler(AccountHandlerParams{
			AccountUC: accountUC,
			TokenSvc:  tokenSvc,
			QRCodeSvc: qrcodeSvc,
			Logger:    newDiscardLogger(),
		}),
		accountUC: accountUC,
		tokenSvc:  tokenSvc,
		qrcodeSvc: qrcodeSvc,
		echo:      e,
	}
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAccountHandler_Register_Success(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	user := &entity.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Name:  "Test User",
		Role:  entity.RoleUser,
	}
	fixtures.accountUC.On("Register", mock.Anything, &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}).Return(&usecase.RegisterOutput{User: user}, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/register",
		`{"name":"Test User","email":"test@example.com","password":"password123","password_confirm":"password123"}`)

	require.NoError(t, fixtures.handler.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "test@example.com")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAccountHandler_Register_ValidationFailure(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	// Password below the minimum length never reaches the usecase.
	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/register",
		`{"name":"Test User","email":"test@example.com","password":"short","password_confirm":"short"}`)

	require.NoError(t, fixtures.handler.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAccountHandler_Register_PasswordMismatch(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/register",
		`{"name":"Test User","email":"test@example.com","password":"password123","password_confirm":"password124"}`)

	require.NoError(t, fixtures.handler.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAccountHandler_Register_DuplicateEmail(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	fixtures.accountUC.On("Register", mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, domainerrors.ErrUserAlreadyExists)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/register",
		`{"name":"Test User","email":"taken@example.com","password":"password123","password_confirm":"password123"}`)

	require.NoError(t, fixtures.handler.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_ALREADY_EXISTS")
}

func TestAccountHandler_Login_SetsSessionCookie(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", Role: entity.RoleUser}
	fixtures.accountUC.On("Login", mock.Anything, &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "password123",
	}).Return(&usecase.LoginOutput{SessionToken: "session-token", User: user}, nil)
	fixtures.tokenSvc.On("SessionTokenDuration").Return(time.Hour)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"password123"}`)

	require.NoError(t, fixtures.handler.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "session-token")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "session-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	fixtures.accountUC.On("Login", mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, domainerrors.ErrInvalidCredentials)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"wrongpass"}`)

	require.NoError(t, fixtures.handler.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAccountHandler_Login_OversizedPassword(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	// A password beyond the hashing limit is rejected before the usecase runs.
	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/login",
		`{"email":"test@example.com","password":"`+strings.Repeat("a", 129)+`"}`)

	require.NoError(t, fixtures.handler.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAccountHandler_VerifyEmail_MissingToken(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/auth/verify-email", "")

	require.NoError(t, fixtures.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_TOKEN")
}

func TestAccountHandler_VerifyEmail_Success(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	user := &entity.User{ID: uuid.New(), Email: "test@example.com", Verified: true}
	fixtures.accountUC.On("VerifyEmail", mock.Anything, &usecase.VerifyEmailInput{Token: "tok-123"}).
		Return(&usecase.VerifyEmailOutput{User: user}, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/auth/verify-email?token=tok-123", "")

	require.NoError(t, fixtures.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"verified":true`)
}

func TestAccountHandler_VerifyEmail_ExpiredToken(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	fixtures.accountUC.On("VerifyEmail", mock.Anything, mock.AnythingOfType("*usecase.VerifyEmailInput")).
		Return(nil, domainerrors.ErrVerificationTokenExpired)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/auth/verify-email?token=tok-123", "")

	require.NoError(t, fixtures.handler.VerifyEmail(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VERIFICATION_TOKEN_EXPIRED")
}

func TestAccountHandler_VerifyEmailQR_ReturnsPNG(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	png := []byte{0x89, 0x50, 0x4e, 0x47}
	fixtures.accountUC.On("VerificationLink", "tok-123").
		Return("https://passport.example.com/auth/verify-email?token=tok-123")
	fixtures.qrcodeSvc.On("GenerateVerificationQR", "https://passport.example.com/auth/verify-email?token=tok-123").
		Return(png, nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodGet, "/auth/verify-email/qr?token=tok-123", "")

	require.NoError(t, fixtures.handler.VerifyEmailQR(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, png, rec.Body.Bytes())
}

func TestAccountHandler_ForgotPassword_AlwaysSucceeds(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	fixtures.accountUC.On("ForgotPassword", mock.Anything, &usecase.ForgotPasswordInput{Email: "anyone@example.com"}).
		Return(nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/forgot-password",
		`{"email":"anyone@example.com"}`)

	require.NoError(t, fixtures.handler.ForgotPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_ResetPassword_Success(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	fixtures.accountUC.On("ResetPassword", mock.Anything, &usecase.ResetPasswordInput{
		Token:       "tok-123",
		NewPassword: "new-password",
	}).Return(nil)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/reset-password",
		`{"token":"tok-123","new_password":"new-password","new_password_confirm":"new-password"}`)

	require.NoError(t, fixtures.handler.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccountHandler_Logout_ClearsCookie(t *testing.T) {
	fixtures := createTestAccountHandler(t)

	c, rec := newJSONContext(fixtures.echo, http.MethodPost, "/auth/logout", "")

	require.NoError(t, fixtures.handler.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
